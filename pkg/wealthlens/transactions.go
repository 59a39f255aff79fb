package wealthlens

import (
	"database/sql"
	"fmt"
	"strings"
)

// TransactionFilter controls transaction queries.
type TransactionFilter struct {
	Symbol          string
	TransactionType string
	StartDate       string
	EndDate         string
	Limit           int
	Offset          int
}

// AddTransaction validates and inserts a new transaction, returning its ID.
func (c *Core) AddTransaction(req AddTransactionRequest) (int64, error) {
	req.Symbol = normalizeSymbol(req.Symbol)
	req.TransactionType = normalizeTransactionType(req.TransactionType)
	if req.Symbol == "" {
		return 0, NewError(ErrCodeValidation, "symbol is required")
	}
	if !isValidTransactionType(req.TransactionType) {
		return 0, NewError(ErrCodeValidation, fmt.Sprintf("invalid transaction_type: %s", req.TransactionType))
	}
	if req.Date == "" {
		req.Date = todayISO()
	}
	if _, err := parseISODate(req.Date); err != nil {
		return 0, WrapError(ErrCodeValidation, "transaction date", err)
	}
	if req.Quantity <= 0 {
		return 0, NewError(ErrCodeValidation, "quantity must be positive")
	}
	if req.Price < 0 {
		return 0, NewError(ErrCodeValidation, "price must be non-negative")
	}
	if req.Charges < 0 {
		return 0, NewError(ErrCodeValidation, "charges must be non-negative")
	}

	result, err := c.db.Exec(`
		INSERT INTO transactions (transaction_date, symbol, transaction_type, quantity, price, charges, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, req.Date, req.Symbol, req.TransactionType, req.Quantity, req.Price, req.Charges, nullString(req.Notes))
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert transaction", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "transaction id", err)
	}

	amount := NewAmount(req.Quantity*req.Price + req.Charges)
	c.logOperation(OperationLog{
		Operation: "add_transaction",
		Symbol:    &req.Symbol,
		Details:   stringPtr(fmt.Sprintf("%s %g @ %g on %s", req.TransactionType, req.Quantity, req.Price, req.Date)),
		NewValue:  &amount,
	})
	return id, nil
}

// GetTransaction fetches a single transaction by ID. Returns nil when
// the ID does not exist.
func (c *Core) GetTransaction(id int64) (*Transaction, error) {
	row := c.db.QueryRow(`
		SELECT id, transaction_date, symbol, transaction_type, quantity, price, charges, notes, created_at
		FROM transactions
		WHERE id = ?
	`, id)
	t, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "get transaction", err)
	}
	return t, nil
}

// GetTransactions returns transactions matching the filter, oldest first.
func (c *Core) GetTransactions(filter TransactionFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, transaction_date, symbol, transaction_type, quantity, price, charges, notes, created_at
		FROM transactions
		WHERE 1=1
	`)
	params := []any{}

	if filter.Symbol != "" {
		query.WriteString(" AND symbol = ?")
		params = append(params, normalizeSymbol(filter.Symbol))
	}
	if filter.TransactionType != "" {
		query.WriteString(" AND transaction_type = ?")
		params = append(params, normalizeTransactionType(filter.TransactionType))
	}
	if filter.StartDate != "" {
		query.WriteString(" AND transaction_date >= ?")
		params = append(params, filter.StartDate)
	}
	if filter.EndDate != "" {
		query.WriteString(" AND transaction_date <= ?")
		params = append(params, filter.EndDate)
	}

	query.WriteString(" ORDER BY transaction_date ASC, id ASC LIMIT ? OFFSET ?")
	params = append(params, limit, offset)

	rows, err := c.db.Query(query.String(), params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query transactions", err)
	}
	defer rows.Close()

	var results []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan transaction", err)
		}
		results = append(results, *t)
	}
	return results, rows.Err()
}

// DeleteTransaction deletes a transaction by ID.
func (c *Core) DeleteTransaction(id int64) (bool, error) {
	result, err := c.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete transaction", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete transaction", err)
	}
	if affected > 0 {
		c.logOperation(OperationLog{
			Operation: "delete_transaction",
			Details:   stringPtr(fmt.Sprintf("id=%d", id)),
		})
	}
	return affected > 0, nil
}

func scanTransaction(scan func(dest ...any) error) (*Transaction, error) {
	var t Transaction
	var notes, createdAt sql.NullString
	if err := scan(
		&t.ID, &t.Date, &t.Symbol, &t.TransactionType,
		&t.Quantity, &t.Price, &t.Charges, &notes, &createdAt,
	); err != nil {
		return nil, err
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if createdAt.Valid {
		t.CreatedAt = &createdAt.String
	}
	return &t, nil
}

func nullString(value *string) sql.NullString {
	if value == nil || strings.TrimSpace(*value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
