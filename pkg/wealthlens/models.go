package wealthlens

// BenchmarkSymbol is the reserved price panel column used for the
// synthetic benchmark overlay.
const BenchmarkSymbol = "NIFTY_50"

var DefaultAssetTypes = []string{"stock", "etf", "bond", "gold", "cash"}

var TransactionTypes = []string{"buy", "sell"}

// Transaction is one recorded trade. Immutable once stored; ordered by
// date with ties broken by insertion order (ascending id).
type Transaction struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	Symbol          string  `json:"symbol"`
	TransactionType string  `json:"transaction_type"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	Charges         float64 `json:"charges"`
	Notes           *string `json:"notes"`
	CreatedAt       *string `json:"created_at"`
}

// AddTransactionRequest defines inputs to record a transaction.
type AddTransactionRequest struct {
	Date            string
	Symbol          string
	TransactionType string
	Quantity        float64
	Price           float64
	Charges         float64
	Notes           *string
}

// Holding is a current aggregate position supplied by the ledger store.
// The analytics engine never recomputes holdings from transactions; it
// uses them only for the allocation snapshot.
type Holding struct {
	Symbol    string  `json:"symbol"`
	Name      *string `json:"name"`
	AssetType string  `json:"asset_type"`
	Sector    string  `json:"sector"`
	Quantity  float64 `json:"quantity"`
	AvgPrice  float64 `json:"avg_price"`
}

// Ledger bundles the holdings snapshot and the ordered transaction log
// for one analysis call.
type Ledger struct {
	Holdings     []Holding     `json:"holdings"`
	Transactions []Transaction `json:"transactions"`
}

// CashFlow is a dated signed amount: negative for cash invested,
// positive for cash returned.
type CashFlow struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Metrics are the scalar risk/return figures of one analysis.
// XIRR, Beta and Sharpe degrade to 0 when they cannot be computed;
// callers must treat 0 as "unavailable" for those fields.
type Metrics struct {
	CurrentValue      float64 `json:"current_value"`
	TotalInvested     float64 `json:"total_invested"`
	AbsoluteProfit    float64 `json:"absolute_profit"`
	AbsoluteReturnPct float64 `json:"absolute_return_pct"`
	XIRR              float64 `json:"xirr"`
	Beta              float64 `json:"beta"`
	Sharpe            float64 `json:"sharpe"`
	Volatility        float64 `json:"volatility"`
	MaxDrawdown       float64 `json:"max_drawdown"`
}

// Analysis is the immutable result of one reconstruction run. All
// series are indexed by Dates and have equal length.
type Analysis struct {
	Dates              []string    `json:"dates"`
	Invested           []float64   `json:"invested"`
	PortfolioValue     []float64   `json:"portfolio_value"`
	BenchmarkValue     []float64   `json:"benchmark_value"`
	PortfolioProfitPct []float64   `json:"portfolio_profit_pct"`
	BenchmarkProfitPct []float64   `json:"benchmark_profit_pct"`
	Drawdown           []float64   `json:"drawdown"`
	CashFlows          []CashFlow  `json:"cash_flows"`
	Allocation         *Allocation `json:"allocation,omitempty"`
	Metrics            Metrics     `json:"metrics"`
}

// AllocationRow is the current value and return of one holding.
type AllocationRow struct {
	Symbol    string  `json:"symbol"`
	Sector    string  `json:"sector"`
	AssetType string  `json:"asset_type"`
	Quantity  float64 `json:"quantity"`
	AvgPrice  float64 `json:"avg_price"`
	Price     float64 `json:"price"`
	Value     float64 `json:"value"`
	ReturnPct float64 `json:"return_pct"`
}

// AllocationSlice is one composition bucket (per sector or asset type).
type AllocationSlice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Allocation is the point-in-time snapshot consumed by presentation
// layers. Rows keeps every filtered holding; the composition slices
// exclude holdings with non-positive current value.
type Allocation struct {
	TotalValue  float64           `json:"total_value"`
	Rows        []AllocationRow   `json:"rows"`
	BySector    []AllocationSlice `json:"by_sector"`
	ByAssetType []AllocationSlice `json:"by_asset_type"`
}

// PricePoint is one stored closing price.
type PricePoint struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
}

// LatestPrice is the last known quote for a symbol.
type LatestPrice struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	UpdatedAt string  `json:"updated_at"`
}

// CashFlowPoint is a cumulative net invested capital history point.
type CashFlowPoint struct {
	Date  string `json:"date"`
	Value Amount `json:"value"`
}

// OperationLog is one audit record of a mutating operation.
type OperationLog struct {
	ID        string  `json:"id"`
	Operation string  `json:"operation_type"`
	Symbol    *string `json:"symbol"`
	Details   *string `json:"details"`
	OldValue  *Amount `json:"old_value"`
	NewValue  *Amount `json:"new_value"`
	CreatedAt *string `json:"created_at"`
}

func todayISO() string {
	return TodayISOInKolkata()
}
