package wealthlens

// Analyze reconstructs the portfolio's daily valuation from the ledger
// and the price panel under the given selection, and derives the full
// set of risk and return metrics. It is a pure function of its three
// inputs: no caching, no shared state, safe to call concurrently.
//
// A nil Analysis with a nil error is the no-data sentinel: the
// selection matched no transactions. Callers should render an empty
// state, not an error.
func Analyze(ledger Ledger, panel *PricePanel, selection Selection) (*Analysis, error) {
	if err := validateTransactions(ledger.Transactions); err != nil {
		return nil, err
	}

	txs := selection.filterTransactions(ledger.Transactions)
	if len(txs) == 0 {
		return nil, nil
	}

	rec, err := reconstruct(txs, panel)
	if err != nil {
		return nil, err
	}

	portfolioValue, benchmarkValue := rec.valueSeries()

	portfolioProfit := profitPctSeries(portfolioValue, rec.invested)
	benchmarkProfit := profitPctSeries(benchmarkValue, rec.invested)
	drawdown, maxDrawdown := drawdownSeries(portfolioValue)

	portfolioReturns := dailyReturns(portfolioValue)
	benchmarkReturns := rec.benchmarkReturns()

	last := len(rec.dates) - 1
	currentValue := portfolioValue[last]
	currentInvested := rec.invested[last]

	absoluteReturnPct := 0.0
	if currentInvested > 0 {
		absoluteReturnPct = (currentValue - currentInvested) / currentInvested * 100
	}

	latest := map[string]float64{}
	for _, h := range selection.filterHoldings(ledger.Holdings) {
		if px, ok := panel.LatestClose(h.Symbol); ok {
			latest[normalizeSymbol(h.Symbol)] = px
		}
	}

	return &Analysis{
		Dates:              rec.dates,
		Invested:           rec.invested,
		PortfolioValue:     portfolioValue,
		BenchmarkValue:     benchmarkValue,
		PortfolioProfitPct: portfolioProfit,
		BenchmarkProfitPct: benchmarkProfit,
		Drawdown:           drawdown,
		CashFlows:          rec.flows,
		Allocation:         buildAllocation(selection.filterHoldings(ledger.Holdings), latest),
		Metrics: Metrics{
			CurrentValue:      currentValue,
			TotalInvested:     currentInvested,
			AbsoluteProfit:    currentValue - currentInvested,
			AbsoluteReturnPct: absoluteReturnPct,
			XIRR:              solveXIRR(rec.flows, currentValue, rec.dates[last]),
			Beta:              beta(portfolioReturns, benchmarkReturns),
			Sharpe:            sharpeRatio(portfolioReturns),
			Volatility:        annualizedVolatility(portfolioReturns),
			MaxDrawdown:       maxDrawdown,
		},
	}, nil
}

// AnalyzePortfolio runs Analyze over the stored ledger and price
// history. The nil result with nil error is the no-data sentinel.
func (c *Core) AnalyzePortfolio(selection Selection) (*Analysis, error) {
	ledger, err := c.LoadLedger()
	if err != nil {
		return nil, err
	}
	panel, err := c.LoadPricePanel()
	if err != nil {
		return nil, err
	}
	if panel.Len() == 0 {
		return nil, nil
	}
	return Analyze(ledger, panel, selection)
}
