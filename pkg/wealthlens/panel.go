package wealthlens

import (
	"fmt"
	"math"
	"sort"
)

// PricePanel is a day-indexed table of closing prices per symbol plus
// one designated benchmark column. It is immutable for the duration of
// an analysis; missing cells are NaN and contribute zero to valuation.
type PricePanel struct {
	benchmark string
	dates     []string
	index     map[string]int
	closes    map[string][]float64
}

// NewPricePanel creates an empty panel with the given benchmark column.
// An empty benchmark defaults to BenchmarkSymbol.
func NewPricePanel(benchmark string) *PricePanel {
	benchmark = normalizeSymbol(benchmark)
	if benchmark == "" {
		benchmark = BenchmarkSymbol
	}
	return &PricePanel{
		benchmark: benchmark,
		index:     map[string]int{},
		closes:    map[string][]float64{},
	}
}

// SetClose records the closing price of a symbol on a date. Dates may
// arrive in any order; columns are kept aligned with the calendar.
func (p *PricePanel) SetClose(date, symbol string, price float64) {
	symbol = normalizeSymbol(symbol)
	i, ok := p.index[date]
	if !ok {
		i = p.insertDate(date)
	}
	p.closes[symbol] = growColumn(p.closes[symbol], len(p.dates))
	p.closes[symbol][i] = price
}

func (p *PricePanel) insertDate(date string) int {
	at := sort.SearchStrings(p.dates, date)
	p.dates = append(p.dates, "")
	copy(p.dates[at+1:], p.dates[at:])
	p.dates[at] = date
	for sym, col := range p.closes {
		col = growColumn(col, len(p.dates)-1)
		col = append(col, math.NaN())
		copy(col[at+1:], col[at:])
		col[at] = math.NaN()
		p.closes[sym] = col
	}
	p.index = make(map[string]int, len(p.dates))
	for i, d := range p.dates {
		p.index[d] = i
	}
	return at
}

func growColumn(col []float64, length int) []float64 {
	for len(col) < length {
		col = append(col, math.NaN())
	}
	return col
}

// Benchmark returns the benchmark column name.
func (p *PricePanel) Benchmark() string {
	return p.benchmark
}

// Dates returns the panel calendar in ascending order.
func (p *PricePanel) Dates() []string {
	return p.dates
}

// Len returns the number of calendar days in the panel.
func (p *PricePanel) Len() int {
	return len(p.dates)
}

// Symbols returns the panel columns, benchmark included, sorted.
func (p *PricePanel) Symbols() []string {
	symbols := make([]string, 0, len(p.closes))
	for sym := range p.closes {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// HasSymbol reports whether the panel carries a column for symbol.
func (p *PricePanel) HasSymbol(symbol string) bool {
	_, ok := p.closes[normalizeSymbol(symbol)]
	return ok
}

// Close returns the closing price of symbol at calendar position i.
// Missing cells return NaN.
func (p *PricePanel) Close(symbol string, i int) float64 {
	col, ok := p.closes[normalizeSymbol(symbol)]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// CloseOn returns the closing price of symbol on a date, or NaN when
// either the date or the cell is missing.
func (p *PricePanel) CloseOn(symbol, date string) float64 {
	i, ok := p.index[date]
	if !ok {
		return math.NaN()
	}
	return p.Close(symbol, i)
}

// LatestClose returns the most recent non-NaN close for symbol.
func (p *PricePanel) LatestClose(symbol string) (float64, bool) {
	col, ok := p.closes[normalizeSymbol(symbol)]
	if !ok {
		return 0, false
	}
	for i := len(col) - 1; i >= 0; i-- {
		if !math.IsNaN(col[i]) {
			return col[i], true
		}
	}
	return 0, false
}

// slice returns a view of the panel restricted to dates >= from. The
// returned panel shares column storage with the receiver; treat both as
// read-only afterwards.
func (p *PricePanel) slice(from string) *PricePanel {
	at := sort.SearchStrings(p.dates, from)
	sliced := &PricePanel{
		benchmark: p.benchmark,
		dates:     p.dates[at:],
		index:     make(map[string]int, len(p.dates)-at),
		closes:    make(map[string][]float64, len(p.closes)),
	}
	for i, d := range sliced.dates {
		sliced.index[d] = i
	}
	for sym, col := range p.closes {
		col = growColumn(col, len(p.dates))
		sliced.closes[sym] = col[at:]
	}
	return sliced
}

// validate rejects panels that cannot support a reconstruction.
func (p *PricePanel) validate() error {
	if p == nil || len(p.dates) == 0 {
		return NewError(ErrCodeInvalidInput, "price panel has no dates")
	}
	if _, ok := p.closes[p.benchmark]; !ok {
		return NewError(ErrCodeInvalidInput,
			fmt.Sprintf("price panel is missing benchmark column %s", p.benchmark))
	}
	return nil
}

// LoadPricePanel builds a panel from the stored price history, using
// the default benchmark column.
func (c *Core) LoadPricePanel() (*PricePanel, error) {
	rows, err := c.db.Query("SELECT price_date, symbol, close FROM price_history ORDER BY price_date, symbol")
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "load price history", err)
	}
	defer rows.Close()

	panel := NewPricePanel(BenchmarkSymbol)
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Date, &p.Symbol, &p.Close); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan price history", err)
		}
		panel.SetClose(p.Date, p.Symbol, p.Close)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(ErrCodeDatabase, "iterate price history", err)
	}
	return panel, nil
}

// SavePricePanel replaces the stored history for every column of the
// panel. NaN cells are skipped.
func (c *Core) SavePricePanel(panel *PricePanel) error {
	if panel == nil {
		return NewError(ErrCodeInvalidInput, "nil price panel")
	}
	tx, err := c.db.Begin()
	if err != nil {
		return WrapError(ErrCodeDatabase, "begin save panel", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, sym := range panel.Symbols() {
		if _, err := tx.Exec("DELETE FROM price_history WHERE symbol = ?", sym); err != nil {
			return WrapError(ErrCodeDatabase, "clear price history", err)
		}
	}
	stmt, err := tx.Prepare("INSERT INTO price_history (price_date, symbol, close) VALUES (?, ?, ?)")
	if err != nil {
		return WrapError(ErrCodeDatabase, "prepare price insert", err)
	}
	defer stmt.Close()

	for _, sym := range panel.Symbols() {
		for i, date := range panel.Dates() {
			px := panel.Close(sym, i)
			if math.IsNaN(px) {
				continue
			}
			if _, err := stmt.Exec(date, sym, px); err != nil {
				return WrapError(ErrCodeDatabase, "insert price", err)
			}
		}
	}
	return tx.Commit()
}
