package wealthlens

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// UpdateLatestPrice inserts or updates a latest price.
func (c *Core) UpdateLatestPrice(symbol string, price float64) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return NewError(ErrCodeValidation, "symbol is required")
	}
	if price <= 0 {
		return NewError(ErrCodeValidation, "price must be positive")
	}
	_, err := c.db.Exec(`
		INSERT INTO latest_prices (symbol, price, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			updated_at = CURRENT_TIMESTAMP
	`, symbol, price)
	if err != nil {
		return WrapError(ErrCodeDatabase, "update latest price", err)
	}
	return nil
}

// GetLatestPrice returns the latest price for a symbol, or nil when
// none has been recorded.
func (c *Core) GetLatestPrice(symbol string) (*LatestPrice, error) {
	symbol = normalizeSymbol(symbol)
	row := c.db.QueryRow("SELECT symbol, price, updated_at FROM latest_prices WHERE symbol = ?", symbol)
	var p LatestPrice
	if err := row.Scan(&p.Symbol, &p.Price, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, WrapError(ErrCodeDatabase, "get latest price", err)
	}
	return &p, nil
}

// GetAllLatestPrices returns every stored latest price keyed by symbol.
func (c *Core) GetAllLatestPrices() (map[string]LatestPrice, error) {
	rows, err := c.db.Query("SELECT symbol, price, updated_at FROM latest_prices")
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query latest prices", err)
	}
	defer rows.Close()

	result := map[string]LatestPrice{}
	for rows.Next() {
		var p LatestPrice
		if err := rows.Scan(&p.Symbol, &p.Price, &p.UpdatedAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan latest price", err)
		}
		result[p.Symbol] = p
	}
	return result, rows.Err()
}

func (c *Core) latestPriceMap() (map[string]float64, error) {
	all, err := c.GetAllLatestPrices()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(all))
	for sym, p := range all {
		out[sym] = p.Price
	}
	return out, nil
}

// RefreshResult summarizes one bulk quote refresh.
type RefreshResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// RefreshAllPrices fetches fresh quotes for every ledger symbol with
// bounded parallelism and stores them as latest prices. Individual
// symbol failures are collected, not fatal: one dead quote source must
// not block the rest of the refresh.
func (c *Core) RefreshAllPrices(ctx context.Context) (*RefreshResult, error) {
	symbols, err := c.LedgerSymbols()
	if err != nil {
		return nil, err
	}

	type quote struct {
		symbol string
		price  float64
		err    error
	}
	quotes := make([]quote, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.refreshLimit)
	for i, sym := range symbols {
		g.Go(func() error {
			price, err := c.quotes.FetchQuote(gctx, sym)
			quotes[i] = quote{symbol: sym, price: price, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &RefreshResult{}
	for _, q := range quotes {
		if q.err != nil {
			if result.Failed == nil {
				result.Failed = map[string]string{}
			}
			result.Failed[q.symbol] = q.err.Error()
			c.logger.Warn("quote refresh failed", "symbol", q.symbol, "err", q.err)
			continue
		}
		if err := c.UpdateLatestPrice(q.symbol, q.price); err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, q.symbol)
	}

	c.logOperation(OperationLog{
		Operation: "refresh_prices",
		Details:   stringPtr(fmt.Sprintf("updated=%d failed=%d", len(result.Updated), len(result.Failed))),
	})
	return result, nil
}
