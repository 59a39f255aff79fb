package api

// transactionPayload is the wire format for recording a transaction.
type transactionPayload struct {
	Date            string  `json:"date"`
	Symbol          string  `json:"symbol"`
	TransactionType string  `json:"transaction_type"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	Charges         float64 `json:"charges"`
	Notes           *string `json:"notes"`
}

// holdingPayload is the wire format for creating or updating a holding.
type holdingPayload struct {
	Symbol    string  `json:"symbol"`
	Name      *string `json:"name"`
	AssetType string  `json:"asset_type"`
	Sector    string  `json:"sector"`
	Quantity  float64 `json:"quantity"`
	AvgPrice  float64 `json:"avg_price"`
}

// pricePayload is the wire format for a manual price update.
type pricePayload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// simulatePayload is the wire format for generating synthetic history.
type simulatePayload struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Symbols   []string `json:"symbols"`
	Seed      int64    `json:"seed"`
}

// reviewPayload is the wire format for requesting an AI review. The
// API key travels in the request and is never persisted.
type reviewPayload struct {
	APIKey   string   `json:"api_key"`
	Provider string   `json:"provider"`
	BaseURL  string   `json:"base_url"`
	Model    string   `json:"model"`
	Symbols  []string `json:"symbols"`
}
