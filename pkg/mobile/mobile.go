package mobile

import (
	"encoding/json"
	"strings"

	"wealthlens/pkg/wealthlens"
)

// Core wraps the WealthLens core for gomobile bindings. Results cross
// the bridge as JSON strings because gomobile cannot export slices of
// structs.
type Core struct {
	core *wealthlens.Core
}

// Open initializes the core with a database path.
func Open(dbPath string) (*Core, error) {
	core, err := wealthlens.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Core{core: core}, nil
}

// Close releases resources.
func (c *Core) Close() error {
	if c == nil || c.core == nil {
		return nil
	}
	return c.core.Close()
}

// GetHoldingsJSON returns the holdings snapshot as JSON.
func (c *Core) GetHoldingsJSON() (string, error) {
	data, err := c.core.GetHoldings()
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// GetTransactionsJSON queries transactions with optional filter JSON.
func (c *Core) GetTransactionsJSON(filterJSON string) (string, error) {
	filter := wealthlens.TransactionFilter{}
	if filterJSON != "" {
		var payload transactionFilterPayload
		if err := json.Unmarshal([]byte(filterJSON), &payload); err != nil {
			return "", err
		}
		filter = wealthlens.TransactionFilter{
			Symbol:          payload.Symbol,
			TransactionType: payload.TransactionType,
			StartDate:       payload.StartDate,
			EndDate:         payload.EndDate,
			Limit:           payload.Limit,
			Offset:          payload.Offset,
		}
	}
	data, err := c.core.GetTransactions(filter)
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// AddTransactionJSON creates a transaction from JSON and returns id JSON.
func (c *Core) AddTransactionJSON(payloadJSON string) (string, error) {
	var payload transactionPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return "", err
	}
	id, err := c.core.AddTransaction(wealthlens.AddTransactionRequest{
		Date:            payload.Date,
		Symbol:          payload.Symbol,
		TransactionType: payload.TransactionType,
		Quantity:        payload.Quantity,
		Price:           payload.Price,
		Charges:         payload.Charges,
		Notes:           payload.Notes,
	})
	if err != nil {
		return "", err
	}
	return marshalJSON(map[string]any{"id": id})
}

// DeleteTransaction deletes a transaction by id.
func (c *Core) DeleteTransaction(id int64) (bool, error) {
	return c.core.DeleteTransaction(id)
}

// AnalyzeJSON runs the portfolio analysis for a comma-separated symbol
// list ("" or "ALL" selects everything) and returns the result as JSON.
// An empty ledger yields the JSON null literal.
func (c *Core) AnalyzeJSON(symbolsCSV string) (string, error) {
	selection, err := parseSelection(symbolsCSV)
	if err != nil {
		return "", err
	}
	analysis, err := c.core.AnalyzePortfolio(selection)
	if err != nil {
		return "", err
	}
	return marshalJSON(analysis)
}

// GetAllocationJSON returns the allocation snapshot as JSON.
func (c *Core) GetAllocationJSON(symbolsCSV string) (string, error) {
	selection, err := parseSelection(symbolsCSV)
	if err != nil {
		return "", err
	}
	allocation, err := c.core.GetAllocation(selection)
	if err != nil {
		return "", err
	}
	return marshalJSON(allocation)
}

// UpdateLatestPrice stores a manually supplied quote.
func (c *Core) UpdateLatestPrice(symbol string, price float64) error {
	return c.core.UpdateLatestPrice(symbol, price)
}

func parseSelection(symbolsCSV string) (wealthlens.Selection, error) {
	var symbols []string
	for _, part := range strings.Split(symbolsCSV, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	if len(symbols) == 0 {
		return wealthlens.SelectAll(), nil
	}
	return wealthlens.SelectSymbols(symbols...)
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type transactionFilterPayload struct {
	Symbol          string `json:"symbol"`
	TransactionType string `json:"transaction_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Limit           int    `json:"limit"`
	Offset          int    `json:"offset"`
}

type transactionPayload struct {
	Date            string  `json:"date"`
	Symbol          string  `json:"symbol"`
	TransactionType string  `json:"transaction_type"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	Charges         float64 `json:"charges"`
	Notes           *string `json:"notes"`
}
