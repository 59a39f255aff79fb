package wealthlens

import (
	"database/sql"
	"sort"
)

// UpsertHolding inserts or replaces a holding snapshot row.
func (c *Core) UpsertHolding(h Holding) error {
	h.Symbol = normalizeSymbol(h.Symbol)
	if h.Symbol == "" {
		return NewError(ErrCodeValidation, "symbol is required")
	}
	if h.Quantity < 0 {
		return NewError(ErrCodeValidation, "quantity must be non-negative")
	}
	if h.AvgPrice < 0 {
		return NewError(ErrCodeValidation, "avg_price must be non-negative")
	}
	assetType := normalizeAssetType(h.AssetType)
	if assetType == "" {
		assetType = "stock"
	}
	sector := h.Sector
	if sector == "" {
		sector = "Other"
	}

	_, err := c.db.Exec(`
		INSERT INTO holdings (symbol, name, asset_type, sector, quantity, avg_price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			asset_type = excluded.asset_type,
			sector = excluded.sector,
			quantity = excluded.quantity,
			avg_price = excluded.avg_price,
			updated_at = CURRENT_TIMESTAMP
	`, h.Symbol, nullString(h.Name), assetType, sector, h.Quantity, h.AvgPrice)
	if err != nil {
		return WrapError(ErrCodeDatabase, "upsert holding", err)
	}

	value := NewAmount(h.Quantity * h.AvgPrice)
	c.logOperation(OperationLog{
		Operation: "upsert_holding",
		Symbol:    &h.Symbol,
		NewValue:  &value,
	})
	return nil
}

// GetHoldings returns every stored holding, largest cost basis first.
func (c *Core) GetHoldings() ([]Holding, error) {
	rows, err := c.db.Query(`
		SELECT symbol, name, asset_type, sector, quantity, avg_price
		FROM holdings
	`)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query holdings", err)
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		var h Holding
		var name sql.NullString
		if err := rows.Scan(&h.Symbol, &name, &h.AssetType, &h.Sector, &h.Quantity, &h.AvgPrice); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan holding", err)
		}
		if name.Valid {
			h.Name = &name.String
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Quantity*holdings[i].AvgPrice > holdings[j].Quantity*holdings[j].AvgPrice
	})
	return holdings, nil
}

// DeleteHolding removes a holding by symbol.
func (c *Core) DeleteHolding(symbol string) (bool, error) {
	symbol = normalizeSymbol(symbol)
	result, err := c.db.Exec("DELETE FROM holdings WHERE symbol = ?", symbol)
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete holding", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete holding", err)
	}
	if affected > 0 {
		c.logOperation(OperationLog{
			Operation: "delete_holding",
			Symbol:    &symbol,
		})
	}
	return affected > 0, nil
}

// LoadLedger reads the full ledger (holdings snapshot plus ordered
// transaction log) for one analysis call.
func (c *Core) LoadLedger() (Ledger, error) {
	holdings, err := c.GetHoldings()
	if err != nil {
		return Ledger{}, err
	}
	transactions, err := c.GetTransactions(TransactionFilter{Limit: 100000})
	if err != nil {
		return Ledger{}, err
	}
	return Ledger{Holdings: holdings, Transactions: transactions}, nil
}

// GetCashFlowHistory returns cumulative net invested capital over
// time: buys add quantity*price+charges, sells subtract it.
func (c *Core) GetCashFlowHistory(limit int) ([]CashFlowPoint, error) {
	if limit <= 0 {
		limit = 10000
	}
	transactions, err := c.GetTransactions(TransactionFilter{Limit: limit})
	if err != nil {
		return nil, err
	}

	byDate := map[string]Amount{}
	for _, t := range transactions {
		amount := NewAmount(t.Quantity*t.Price + t.Charges)
		switch t.TransactionType {
		case "buy":
			byDate[t.Date] = Amount{byDate[t.Date].Add(amount.Decimal)}
		case "sell":
			byDate[t.Date] = Amount{byDate[t.Date].Sub(amount.Decimal)}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var cumulative []CashFlowPoint
	var running Amount
	for _, d := range dates {
		running = Amount{running.Add(byDate[d].Decimal)}
		cumulative = append(cumulative, CashFlowPoint{Date: d, Value: running})
	}
	return cumulative, nil
}

// LedgerSymbols returns the distinct symbols present in holdings or
// transactions, sorted.
func (c *Core) LedgerSymbols() ([]string, error) {
	rows, err := c.db.Query(`
		SELECT symbol FROM holdings
		UNION
		SELECT symbol FROM transactions
		ORDER BY symbol
	`)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query symbols", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan symbol", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// logOperation records an audit entry; failures are logged, never
// propagated, so audit trouble cannot fail a write.
func (c *Core) logOperation(entry OperationLog) {
	if _, err := c.AddOperationLog(entry); err != nil {
		c.logger.Warn("operation log failed", "operation", entry.Operation, "err", err)
	}
}
