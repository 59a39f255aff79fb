package wealthlens

import "math"

// valueSeries converts the reconstructed unit positions into
// day-indexed market values. Each day uses only that day's close and
// that day's accumulated units, so there is no look-ahead. The
// benchmark column is excluded from the portfolio sum even when it was
// traded; symbols without a panel column (or with a missing cell on a
// given day) contribute zero. Positions are summed in sorted symbol
// order so identical inputs always produce identical series.
func (rec *reconstruction) valueSeries() (portfolio, benchmark []float64) {
	days := len(rec.dates)
	portfolio = make([]float64, days)
	benchmark = make([]float64, days)
	benchCol := rec.panel.Benchmark()

	for day := 0; day < days; day++ {
		total := 0.0
		for _, sym := range rec.symbols {
			if sym == benchCol {
				continue
			}
			px := rec.panel.Close(sym, day)
			if math.IsNaN(px) {
				continue
			}
			total += rec.units[sym][day] * px
		}
		portfolio[day] = total

		benchPx := rec.panel.Close(benchCol, day)
		if !math.IsNaN(benchPx) {
			benchmark[day] = rec.benchUnits[day] * benchPx
		}
	}
	return portfolio, benchmark
}

// benchmarkReturns is the day-over-day change of the raw benchmark
// close column over the restricted calendar, aligned with the
// portfolio return series.
func (rec *reconstruction) benchmarkReturns() []float64 {
	days := len(rec.dates)
	closes := make([]float64, days)
	for day := 0; day < days; day++ {
		px := rec.panel.Close(rec.panel.Benchmark(), day)
		if math.IsNaN(px) {
			px = 0
		}
		closes[day] = px
	}
	return dailyReturns(closes)
}
