package wealthlens

import (
	"database/sql"

	"github.com/google/uuid"
)

// AddOperationLog records an audit entry and returns its generated ID.
func (c *Core) AddOperationLog(entry OperationLog) (string, error) {
	if entry.Operation == "" {
		return "", NewError(ErrCodeValidation, "operation type is required")
	}
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := NowRFC3339InKolkata()
	if entry.CreatedAt != nil && *entry.CreatedAt != "" {
		createdAt = *entry.CreatedAt
	}

	var oldValue, newValue any
	if entry.OldValue != nil {
		oldValue, _ = entry.OldValue.Value()
	}
	if entry.NewValue != nil {
		newValue, _ = entry.NewValue.Value()
	}

	_, err := c.db.Exec(`
		INSERT INTO operation_logs (id, operation_type, symbol, details, old_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, entry.Operation, nullString(entry.Symbol), entry.Details, oldValue, newValue, createdAt)
	if err != nil {
		return "", WrapError(ErrCodeDatabase, "failed to insert operation log", err)
	}
	return id, nil
}

// GetOperationLogs returns audit entries newest first.
func (c *Core) GetOperationLogs(limit, offset int) ([]OperationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := c.db.Query(`
		SELECT id, operation_type, symbol, details, old_value, new_value, created_at
		FROM operation_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "failed to query operation logs", err)
	}
	defer rows.Close()

	logs := make([]OperationLog, 0)
	for rows.Next() {
		var entry OperationLog
		var symbol, details sql.NullString
		var oldValue, newValue sql.NullFloat64
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Operation, &symbol, &details, &oldValue, &newValue, &createdAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "failed to scan operation log", err)
		}
		entry.CreatedAt = &createdAt
		if symbol.Valid {
			entry.Symbol = &symbol.String
		}
		if details.Valid {
			entry.Details = &details.String
		}
		if oldValue.Valid {
			amt := NewAmount(oldValue.Float64)
			entry.OldValue = &amt
		}
		if newValue.Valid {
			amt := NewAmount(newValue.Float64)
			entry.NewValue = &amt
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(ErrCodeDatabase, "failed to iterate operation logs", err)
	}
	return logs, nil
}
