package wealthlens

import (
	"testing"
)

func TestAnalyzeSingleBuyAndHold(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	panel := flatBenchmarkPanel(dates, 1000)
	prices := []float64{100, 110, 120, 130, 150}
	for i, d := range dates {
		panel.SetClose(d, "TCS", prices[i])
	}

	ledger := Ledger{
		Transactions: []Transaction{buyTx(1, "2024-01-01", "TCS", 10, 100, 0)},
	}

	analysis, err := Analyze(ledger, panel, SelectAll())
	assertNoError(t, err, "analyze")
	if analysis == nil {
		t.Fatal("expected an analysis result")
	}

	if len(analysis.Dates) != 5 {
		t.Fatalf("expected 5 days, got %d", len(analysis.Dates))
	}
	wantValues := []float64{1000, 1100, 1200, 1300, 1500}
	for i, want := range wantValues {
		assertFloatEquals(t, analysis.PortfolioValue[i], want, "portfolio value")
		assertFloatEquals(t, analysis.Invested[i], 1000, "invested capital")
		// Flat benchmark: the phantom position never moves.
		assertFloatEquals(t, analysis.BenchmarkValue[i], 1000, "benchmark value")
		assertFloatEquals(t, analysis.Drawdown[i], 0, "monotone series has no drawdown")
	}
	assertFloatEquals(t, analysis.PortfolioProfitPct[0], 0, "profit on day 1")
	assertFloatEquals(t, analysis.PortfolioProfitPct[4], 50, "profit on day 5")
	assertFloatEquals(t, analysis.BenchmarkProfitPct[4], 0, "flat benchmark profit")

	m := analysis.Metrics
	assertFloatEquals(t, m.CurrentValue, 1500, "current value")
	assertFloatEquals(t, m.TotalInvested, 1000, "total invested")
	assertFloatEquals(t, m.AbsoluteProfit, 500, "absolute profit")
	assertFloatEquals(t, m.AbsoluteReturnPct, 50, "absolute return pct")
	assertFloatEquals(t, m.MaxDrawdown, 0, "max drawdown")
	if m.XIRR <= 0 {
		t.Errorf("expected positive XIRR, got %.6f", m.XIRR)
	}
	// Benchmark returns are identically zero: beta degrades to 0.
	assertFloatEquals(t, m.Beta, 0, "beta against a flat benchmark")
}

func TestAnalyzeNoMatchingTransactions(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02"}
	panel := flatBenchmarkPanel(dates, 1000)
	panel.SetClose("2024-01-01", "TCS", 100)

	ledger := Ledger{
		Transactions: []Transaction{buyTx(1, "2024-01-01", "TCS", 10, 100, 0)},
	}

	analysis, err := Analyze(ledger, panel, mustSelect(t, "INFY"))
	if err != nil {
		t.Fatalf("no-data sentinel must not error: %v", err)
	}
	if analysis != nil {
		t.Fatal("expected nil analysis when the selection matches nothing")
	}
}

func TestAnalyzeEmptyLedger(t *testing.T) {
	panel := flatBenchmarkPanel([]string{"2024-01-01"}, 1000)
	analysis, err := Analyze(Ledger{}, panel, SelectAll())
	assertNoError(t, err, "empty ledger")
	if analysis != nil {
		t.Fatal("expected nil analysis for an empty ledger")
	}
}

func TestAnalyzeRejectsInvalidTransactions(t *testing.T) {
	panel := flatBenchmarkPanel([]string{"2024-01-01"}, 1000)
	ledger := Ledger{
		Transactions: []Transaction{buyTx(1, "2024-01-01", "TCS", -5, 100, 0)},
	}
	_, err := Analyze(ledger, panel, SelectAll())
	assertErrorCode(t, err, ErrCodeValidation, "invalid quantity")
}

func TestAnalyzeSelectionFiltersSeries(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02"}
	panel := flatBenchmarkPanel(dates, 1000)
	panel.SetClose("2024-01-01", "TCS", 100)
	panel.SetClose("2024-01-02", "TCS", 100)
	panel.SetClose("2024-01-01", "INFY", 50)
	panel.SetClose("2024-01-02", "INFY", 50)

	ledger := Ledger{
		Transactions: []Transaction{
			buyTx(1, "2024-01-01", "TCS", 10, 100, 0),
			buyTx(2, "2024-01-01", "INFY", 10, 50, 0),
		},
	}

	all, err := Analyze(ledger, panel, SelectAll())
	assertNoError(t, err, "analyze all")
	assertFloatEquals(t, all.Metrics.CurrentValue, 1500, "combined value")

	only, err := Analyze(ledger, panel, mustSelect(t, "tcs"))
	assertNoError(t, err, "analyze filtered")
	assertFloatEquals(t, only.Metrics.CurrentValue, 1000, "TCS-only value")
	assertFloatEquals(t, only.Metrics.TotalInvested, 1000, "TCS-only invested")
}

func TestAnalyzeBenchmarkOverlayGrows(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	panel := NewPricePanel(BenchmarkSymbol)
	bench := []float64{1000, 1100, 1210}
	for i, d := range dates {
		panel.SetClose(d, BenchmarkSymbol, bench[i])
		panel.SetClose(d, "TCS", 100)
	}

	ledger := Ledger{
		Transactions: []Transaction{buyTx(1, "2024-01-01", "TCS", 10, 100, 0)},
	}
	analysis, err := Analyze(ledger, panel, SelectAll())
	assertNoError(t, err, "analyze")

	// 1000 invested at benchmark 1000 buys one phantom unit.
	assertFloatEquals(t, analysis.BenchmarkValue[0], 1000, "phantom value at buy")
	assertFloatEquals(t, analysis.BenchmarkValue[2], 1210, "phantom value tracks the index")
	assertFloatEquals(t, analysis.BenchmarkProfitPct[2], 21, "phantom profit pct")

	// Stock is flat while the index rallies 10% a day: beta 0.
	assertFloatEquals(t, analysis.Metrics.Beta, 0, "flat portfolio beta")
}

func TestAnalyzeIdempotent(t *testing.T) {
	// Positions at wildly different magnitudes, one driven negative by
	// an oversell: float addition is not associative, so any variation
	// in summation order across runs shows up as distinct values here.
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	panel := flatBenchmarkPanel(dates, 1000)
	for _, d := range dates {
		panel.SetClose(d, "BIG", 1e8)
		panel.SetClose(d, "SMALL", 1)
		panel.SetClose(d, "SHORT", 1e8)
	}
	ledger := Ledger{
		Transactions: []Transaction{
			buyTx(1, "2024-01-01", "BIG", 1e8, 1e8, 0),
			buyTx(2, "2024-01-01", "SMALL", 1, 1, 0),
			buyTx(3, "2024-01-01", "SHORT", 1, 1e8, 0),
			sellTx(4, "2024-01-02", "SHORT", 1e8+1, 1e8, 0),
		},
	}

	first, err := Analyze(ledger, panel, SelectAll())
	assertNoError(t, err, "first run")
	for run := 0; run < 50; run++ {
		again, err := Analyze(ledger, panel, SelectAll())
		assertNoError(t, err, "repeat run")

		for i := range first.PortfolioValue {
			if again.PortfolioValue[i] != first.PortfolioValue[i] {
				t.Fatalf("run %d day %d: portfolio value %v != %v", run, i, again.PortfolioValue[i], first.PortfolioValue[i])
			}
			if again.Invested[i] != first.Invested[i] {
				t.Fatalf("run %d day %d: invested %v != %v", run, i, again.Invested[i], first.Invested[i])
			}
			if again.BenchmarkValue[i] != first.BenchmarkValue[i] {
				t.Fatalf("run %d day %d: benchmark value %v != %v", run, i, again.BenchmarkValue[i], first.BenchmarkValue[i])
			}
		}
		if again.Metrics != first.Metrics {
			t.Fatalf("run %d: metrics %+v != %+v", run, again.Metrics, first.Metrics)
		}
	}
}

func TestAnalyzePortfolioFromStore(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	// No price history: the no-data sentinel.
	analysis, err := core.AnalyzePortfolio(SelectAll())
	assertNoError(t, err, "analyze empty store")
	if analysis != nil {
		t.Fatal("expected nil analysis for an empty store")
	}

	panel := flatBenchmarkPanel([]string{"2024-01-01", "2024-01-02"}, 1000)
	panel.SetClose("2024-01-01", "TCS", 100)
	panel.SetClose("2024-01-02", "TCS", 120)
	assertNoError(t, core.SavePricePanel(panel), "save panel")

	testBuyTransaction(t, core, "2024-01-01", "TCS", 10, 100)

	analysis, err = core.AnalyzePortfolio(SelectAll())
	assertNoError(t, err, "analyze stored ledger")
	if analysis == nil {
		t.Fatal("expected an analysis result")
	}
	assertFloatEquals(t, analysis.Metrics.CurrentValue, 1200, "current value from store")
	assertFloatEquals(t, analysis.Metrics.TotalInvested, 1000, "invested from store")
}
