package wealthlens

import (
	"fmt"
	"math"
	"sort"
)

// reconstruction is the replayed state of a filtered transaction log
// against the panel calendar: dense day-indexed unit series per symbol,
// the phantom benchmark position, the invested-capital balance and the
// signed cash flows feeding XIRR. Owned exclusively by one analysis
// call; never shared.
type reconstruction struct {
	panel      *PricePanel // restricted to dates >= first trade
	dates      []string
	symbols    []string // sorted keys of units, fixing summation order
	units      map[string][]float64
	benchUnits []float64
	invested   []float64
	flows      []CashFlow
}

// reconstruct replays transactions day by day over the panel calendar.
// A position change on day D is carried forward to every later day
// until the next change (step-function semantics). Buys also convert
// the invested cash into phantom benchmark units at that day's
// benchmark close; sells never reduce the phantom position. That
// asymmetry matches the system this replaces and biases the benchmark
// overlay upward under heavy turnover.
func reconstruct(txs []Transaction, panel *PricePanel) (*reconstruction, error) {
	if err := panel.validate(); err != nil {
		return nil, err
	}
	txs = sortTransactions(txs)

	startDate := txs[0].Date
	if _, err := parseISODate(startDate); err != nil {
		return nil, WrapError(ErrCodeValidation, "transaction date", err)
	}
	if startDate < panel.Dates()[0] {
		return nil, NewError(ErrCodeDataIntegrity,
			fmt.Sprintf("transaction on %s predates the price panel (starts %s)", startDate, panel.Dates()[0]))
	}
	restricted := panel.slice(startDate)
	days := restricted.Len()
	if days == 0 {
		return nil, NewError(ErrCodeDataIntegrity,
			fmt.Sprintf("no price data on or after first trade date %s", startDate))
	}

	// Map each transaction onto its calendar day: the exact row when
	// present, otherwise the nearest later row.
	dates := restricted.Dates()
	byDay := make(map[int][]Transaction, len(txs))
	for _, tx := range txs {
		day := sort.SearchStrings(dates, tx.Date)
		if day == len(dates) {
			return nil, NewError(ErrCodeDataIntegrity,
				fmt.Sprintf("transaction for %s on %s is outside the price panel range", tx.Symbol, tx.Date))
		}
		byDay[day] = append(byDay[day], tx)
	}

	rec := &reconstruction{
		panel:      restricted,
		dates:      dates,
		units:      map[string][]float64{},
		benchUnits: make([]float64, days),
		invested:   make([]float64, days),
	}
	for _, tx := range txs {
		sym := normalizeSymbol(tx.Symbol)
		if _, ok := rec.units[sym]; !ok {
			rec.units[sym] = make([]float64, days)
			rec.symbols = append(rec.symbols, sym)
		}
	}
	// Valuation sums positions in this order. Float addition is not
	// associative, so the order must be fixed for identical inputs to
	// produce identical results.
	sort.Strings(rec.symbols)

	running := map[string]float64{}
	var benchUnits, invested float64
	for day := 0; day < days; day++ {
		for _, tx := range byDay[day] {
			sym := normalizeSymbol(tx.Symbol)
			amount := tx.Quantity*tx.Price + tx.Charges

			switch normalizeTransactionType(tx.TransactionType) {
			case "buy":
				if restricted.HasSymbol(sym) && math.IsNaN(restricted.Close(sym, day)) {
					return nil, NewError(ErrCodeDataIntegrity,
						fmt.Sprintf("missing price for %s on trade date %s", sym, dates[day]))
				}
				benchPx := restricted.Close(restricted.Benchmark(), day)
				if math.IsNaN(benchPx) || benchPx <= 0 {
					return nil, NewError(ErrCodeDataIntegrity,
						fmt.Sprintf("missing benchmark price on trade date %s", dates[day]))
				}
				running[sym] += tx.Quantity
				benchUnits += amount / benchPx
				invested += amount
				rec.flows = append(rec.flows, CashFlow{Date: dates[day], Amount: -amount})
			case "sell":
				if restricted.HasSymbol(sym) && math.IsNaN(restricted.Close(sym, day)) {
					return nil, NewError(ErrCodeDataIntegrity,
						fmt.Sprintf("missing price for %s on trade date %s", sym, dates[day]))
				}
				running[sym] -= tx.Quantity
				// Charges are added to the cost reduction on sells too,
				// mirroring the buy side. Kept for compatibility with the
				// system this replaces even though it double-counts sell
				// charges against invested capital.
				invested -= amount
				proceeds := tx.Quantity*tx.Price - tx.Charges
				rec.flows = append(rec.flows, CashFlow{Date: dates[day], Amount: proceeds})
			default:
				return nil, NewError(ErrCodeValidation,
					fmt.Sprintf("invalid transaction type %q", tx.TransactionType))
			}
		}

		for sym, qty := range running {
			rec.units[sym][day] = qty
		}
		rec.invested[day] = invested
		rec.benchUnits[day] = benchUnits
	}

	return rec, nil
}

// sortTransactions orders by date ascending, ties broken by insertion
// order (id). The input slice is not mutated.
func sortTransactions(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// validateTransactions rejects malformed input before reconstruction
// begins, so the engine never partially computes over bad data.
func validateTransactions(txs []Transaction) error {
	for _, tx := range txs {
		if normalizeSymbol(tx.Symbol) == "" {
			return NewError(ErrCodeValidation, "transaction symbol is required")
		}
		if _, err := parseISODate(tx.Date); err != nil {
			return WrapError(ErrCodeValidation, "transaction date", err)
		}
		if !isValidTransactionType(normalizeTransactionType(tx.TransactionType)) {
			return NewError(ErrCodeValidation,
				fmt.Sprintf("invalid transaction type %q for %s", tx.TransactionType, tx.Symbol))
		}
		if tx.Quantity <= 0 || math.IsNaN(tx.Quantity) || math.IsInf(tx.Quantity, 0) {
			return NewError(ErrCodeValidation,
				fmt.Sprintf("transaction quantity must be positive for %s on %s", tx.Symbol, tx.Date))
		}
		if tx.Price < 0 || math.IsNaN(tx.Price) || math.IsInf(tx.Price, 0) {
			return NewError(ErrCodeValidation,
				fmt.Sprintf("transaction price must be non-negative for %s on %s", tx.Symbol, tx.Date))
		}
		if tx.Charges < 0 || math.IsNaN(tx.Charges) || math.IsInf(tx.Charges, 0) {
			return NewError(ErrCodeValidation,
				fmt.Sprintf("transaction charges must be non-negative for %s on %s", tx.Symbol, tx.Date))
		}
	}
	return nil
}
