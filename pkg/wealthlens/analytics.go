package wealthlens

import (
	"math"
	"time"
)

// Risk model constants. The risk-free rate matches the assumption of
// the dashboards this engine feeds: 6% annual, compounded to a daily
// equivalent over 252 trading days.
const (
	annualRiskFreeRate = 0.06
	tradingDaysPerYear = 252
)

const (
	xirrInitialGuess  = 0.10
	xirrTolerance     = 1e-7
	xirrMaxIterations = 100
	xirrBisectionLow  = -0.9999
	xirrBisectionHigh = 10.0
)

// profitPctSeries returns (value - invested) / invested * 100 per day.
// Days where invested capital is zero or negative yield 0 instead of a
// division blowup.
func profitPctSeries(values, invested []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < len(invested) && invested[i] > 0 {
			out[i] = (values[i] - invested[i]) / invested[i] * 100
		}
	}
	return out
}

// drawdownSeries returns the percentage decline from the running peak
// per day, and the most negative value. Drawdown is always <= 0 and 0
// at or after a new high.
func drawdownSeries(values []float64) ([]float64, float64) {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, 0
	}
	runningMax := values[0]
	maxDD := 0.0
	for i, v := range values {
		if v > runningMax {
			runningMax = v
		}
		if runningMax > 0 {
			out[i] = (v - runningMax) / runningMax * 100
		}
		if out[i] < maxDD {
			maxDD = out[i]
		}
	}
	return out, maxDD
}

// dailyReturns returns simple day-over-day percentage change, with the
// first (undefined) return as 0. Days following a zero value also
// yield 0.
func dailyReturns(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			out[i] = values[i]/values[i-1] - 1
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleCovariance uses the n-1 denominator, matching the estimator
// the replaced system used for beta.
func sampleCovariance(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(n-1)
}

func sampleStdDev(xs []float64) float64 {
	return math.Sqrt(sampleCovariance(xs, xs))
}

// beta is covariance(portfolio, benchmark) / variance(benchmark) over
// the aligned return series. Fewer than 2 points or a flat benchmark
// yield 0.
func beta(portfolioReturns, benchmarkReturns []float64) float64 {
	variance := sampleCovariance(benchmarkReturns, benchmarkReturns)
	if variance == 0 {
		return 0
	}
	b := sampleCovariance(portfolioReturns, benchmarkReturns) / variance
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return 0
	}
	return b
}

// sharpeRatio is the annualized mean excess daily return over its
// standard deviation. A degenerate excess series yields 0.
func sharpeRatio(portfolioReturns []float64) float64 {
	if len(portfolioReturns) < 2 {
		return 0
	}
	rfDaily := math.Pow(1+annualRiskFreeRate, 1.0/tradingDaysPerYear) - 1
	excess := make([]float64, len(portfolioReturns))
	for i, r := range portfolioReturns {
		excess[i] = r - rfDaily
	}
	sd := sampleStdDev(excess)
	if sd == 0 {
		return 0
	}
	s := mean(excess) / sd * math.Sqrt(tradingDaysPerYear)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// annualizedVolatility is the sample standard deviation of daily
// returns scaled to a year, in percent.
func annualizedVolatility(portfolioReturns []float64) float64 {
	if len(portfolioReturns) < 2 {
		return 0
	}
	return sampleStdDev(portfolioReturns) * math.Sqrt(tradingDaysPerYear) * 100
}

// xnpv is the net present value of irregularly dated flows at the
// given rate, discounted actual/365 from the earliest flow date.
func xnpv(rate float64, flows []CashFlow, dates []time.Time, minDate time.Time) float64 {
	if rate <= -1.0 {
		return math.Inf(1)
	}
	sum := 0.0
	for i, f := range flows {
		years := dates[i].Sub(minDate).Hours() / 24 / 365.0
		sum += f.Amount / math.Pow(1+rate, years)
	}
	return sum
}

func xnpvDerivative(rate float64, flows []CashFlow, dates []time.Time, minDate time.Time) float64 {
	if rate <= -1.0 {
		return math.Inf(1)
	}
	sum := 0.0
	for i, f := range flows {
		years := dates[i].Sub(minDate).Hours() / 24 / 365.0
		sum -= f.Amount * years / math.Pow(1+rate, years+1)
	}
	return sum
}

// solveXIRR finds the rate making xnpv zero with bounded-iteration
// Newton's method, falling back to bisection when Newton diverges.
// Failure to converge yields the 0.0 sentinel rather than an error, so
// one pathological cash-flow list cannot abort a whole analysis.
// Callers must treat 0.0 as "unavailable", not a literal zero return.
func solveXIRR(flows []CashFlow, currentValue float64, today string) float64 {
	if len(flows) == 0 {
		return 0
	}
	all := make([]CashFlow, len(flows), len(flows)+1)
	copy(all, flows)
	all = append(all, CashFlow{Date: today, Amount: currentValue})

	dates := make([]time.Time, len(all))
	minDate := time.Time{}
	for i, f := range all {
		t, err := parseISODate(f.Date)
		if err != nil {
			return 0
		}
		dates[i] = t
		if minDate.IsZero() || t.Before(minDate) {
			minDate = t
		}
	}

	rate := xirrInitialGuess
	for i := 0; i < xirrMaxIterations; i++ {
		value := xnpv(rate, all, dates, minDate)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			break
		}
		if math.Abs(value) < xirrTolerance {
			return rate
		}
		derivative := xnpvDerivative(rate, all, dates, minDate)
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			break
		}
		next := rate - value/derivative
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			break
		}
		if math.Abs(next-rate) < xirrTolerance {
			return next
		}
		rate = next
	}

	return bisectXIRR(all, dates, minDate)
}

func bisectXIRR(flows []CashFlow, dates []time.Time, minDate time.Time) float64 {
	lo, hi := xirrBisectionLow, xirrBisectionHigh
	fLo := xnpv(lo, flows, dates, minDate)
	fHi := xnpv(hi, flows, dates, minDate)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return 0
	}
	for i := 0; i < xirrMaxIterations; i++ {
		mid := (lo + hi) / 2
		fMid := xnpv(mid, flows, dates, minDate)
		if math.IsNaN(fMid) {
			return 0
		}
		if math.Abs(fMid) < xirrTolerance || (hi-lo)/2 < xirrTolerance {
			return mid
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0
}
