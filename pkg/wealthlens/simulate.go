package wealthlens

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

// SimulateOptions controls synthetic price-history generation.
type SimulateOptions struct {
	// StartDate is the first calendar date (inclusive), ISO format.
	// Defaults to 2010-01-01.
	StartDate string
	// EndDate is the last calendar date (inclusive), ISO format.
	// Defaults to today in the exchange timezone.
	EndDate string
	// Symbols are the non-benchmark assets to generate. The benchmark
	// series is always generated.
	Symbols []string
	// Seed fixes the random stream so repeated runs produce identical
	// series. Defaults to 42.
	Seed int64
}

const (
	benchmarkStartPrice = 5000.0
	benchmarkDrift      = 0.0004
	benchmarkVolatility = 0.01
)

// SimulatePricePanel generates geometric-Brownian-motion closing prices on
// business days for the benchmark plus the requested symbols. Useful for
// demos and for seeding a fresh database.
func SimulatePricePanel(opts SimulateOptions) (*PricePanel, error) {
	startDate := opts.StartDate
	if startDate == "" {
		startDate = "2010-01-01"
	}
	endDate := opts.EndDate
	if endDate == "" {
		endDate = TodayISOInKolkata()
	}
	start, err := parseISODate(startDate)
	if err != nil {
		return nil, NewError(ErrCodeInvalidInput, "invalid simulation start date: "+startDate)
	}
	end, err := parseISODate(endDate)
	if err != nil {
		return nil, NewError(ErrCodeInvalidInput, "invalid simulation end date: "+endDate)
	}
	if end.Before(start) {
		return nil, NewError(ErrCodeInvalidInput, "simulation end date precedes start date")
	}

	dates := businessDays(start, end)
	if len(dates) == 0 {
		return nil, NewError(ErrCodeInvalidInput, "date range contains no business days")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed))

	panel := NewPricePanel(BenchmarkSymbol)
	bench := randomWalk(rng, benchmarkStartPrice, len(dates), benchmarkDrift, benchmarkVolatility)
	for i, d := range dates {
		panel.SetClose(d, BenchmarkSymbol, bench[i])
	}

	symbols := make([]string, 0, len(opts.Symbols))
	seen := map[string]struct{}{}
	for _, s := range opts.Symbols {
		s = normalizeSymbol(s)
		if s == "" || s == BenchmarkSymbol {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		vol := 0.01 + rng.Float64()*0.015
		drift := 0.0001 + rng.Float64()*0.0004
		initial := 100 + rng.Float64()*1900
		series := randomWalk(rng, initial, len(dates), drift, vol)
		for i, d := range dates {
			panel.SetClose(d, sym, series[i])
		}
	}
	return panel, nil
}

// SimulateAndStorePrices generates a synthetic panel and persists it,
// replacing any existing price history.
func (c *Core) SimulateAndStorePrices(opts SimulateOptions) (int, error) {
	panel, err := SimulatePricePanel(opts)
	if err != nil {
		return 0, err
	}
	if err := c.SavePricePanel(panel); err != nil {
		return 0, err
	}
	c.logger.Info("simulated price history stored",
		"days", panel.Len(),
		"symbols", len(panel.Symbols()))
	return panel.Len(), nil
}

// randomWalk produces a GBM price path: price[i] = start * exp(cumsum(r)),
// with r drawn from N(drift, volatility).
func randomWalk(rng *rand.Rand, startPrice float64, days int, drift, volatility float64) []float64 {
	prices := make([]float64, days)
	cum := 0.0
	for i := range prices {
		cum += drift + rng.NormFloat64()*volatility
		prices[i] = startPrice * math.Exp(cum)
	}
	return prices
}

// businessDays lists Monday-Friday dates in [start, end] as ISO strings.
func businessDays(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			dates = append(dates, d.Format(isoDateLayout))
		}
	}
	return dates
}
