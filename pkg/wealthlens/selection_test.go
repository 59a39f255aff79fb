package wealthlens

import (
	"testing"
)

func TestSelectSymbols(t *testing.T) {
	sel, err := SelectSymbols("tcs", " infy ")
	assertNoError(t, err, "explicit selection")
	if sel.All() {
		t.Error("explicit selection must not report All")
	}
	if !sel.Contains("TCS") || !sel.Contains("infy") {
		t.Error("selection must match case-insensitively")
	}
	if sel.Contains("GOLDBEES") {
		t.Error("selection must exclude unlisted symbols")
	}
}

func TestSelectSymbolsAllSentinel(t *testing.T) {
	sel, err := SelectSymbols("TCS", "all")
	assertNoError(t, err, "ALL sentinel")
	if !sel.All() {
		t.Error("the ALL sentinel selects everything")
	}
	if !sel.Contains("ANYTHING") {
		t.Error("an all-selection contains every symbol")
	}
}

func TestSelectSymbolsEmpty(t *testing.T) {
	if _, err := SelectSymbols(); err == nil {
		t.Error("empty selection must error")
	}
	if _, err := SelectSymbols("", "   "); err == nil {
		t.Error("blank-only selection must error")
	}
}

func TestSelectionFilters(t *testing.T) {
	txs := []Transaction{
		buyTx(1, "2024-01-01", "TCS", 1, 100, 0),
		buyTx(2, "2024-01-02", "INFY", 1, 100, 0),
		buyTx(3, "2024-01-03", "TCS", 1, 100, 0),
	}
	holdings := []Holding{
		{Symbol: "TCS"},
		{Symbol: "INFY"},
	}

	sel := mustSelect(t, "TCS")
	filteredTxs := sel.filterTransactions(txs)
	if len(filteredTxs) != 2 {
		t.Fatalf("expected 2 TCS transactions, got %d", len(filteredTxs))
	}
	// Log order preserved.
	if filteredTxs[0].ID != 1 || filteredTxs[1].ID != 3 {
		t.Errorf("filter reordered the log: %d, %d", filteredTxs[0].ID, filteredTxs[1].ID)
	}

	filteredHoldings := sel.filterHoldings(holdings)
	if len(filteredHoldings) != 1 || filteredHoldings[0].Symbol != "TCS" {
		t.Errorf("unexpected filtered holdings: %v", filteredHoldings)
	}

	all := SelectAll()
	if len(all.filterTransactions(txs)) != 3 || len(all.filterHoldings(holdings)) != 2 {
		t.Error("all-selection must pass everything through")
	}
}

func TestZeroValueSelectionSelectsAll(t *testing.T) {
	var zero Selection
	if !zero.All() {
		t.Error("the zero value selects everything")
	}
	if !zero.Contains("TCS") {
		t.Error("the zero value contains every symbol")
	}

	txs := []Transaction{
		buyTx(1, "2024-01-01", "TCS", 1, 100, 0),
		buyTx(2, "2024-01-02", "INFY", 1, 100, 0),
	}
	if len(zero.filterTransactions(txs)) != 2 {
		t.Error("the zero value must pass every transaction through")
	}

	// Analyze agrees: the zero value behaves exactly like SelectAll.
	dates := []string{"2024-01-01", "2024-01-02"}
	panel := flatBenchmarkPanel(dates, 1000)
	panel.SetClose("2024-01-01", "TCS", 100)
	panel.SetClose("2024-01-02", "TCS", 110)
	ledger := Ledger{Transactions: []Transaction{buyTx(1, "2024-01-01", "TCS", 10, 100, 0)}}

	fromZero, err := Analyze(ledger, panel, zero)
	assertNoError(t, err, "analyze with zero value")
	fromAll, err := Analyze(ledger, panel, SelectAll())
	assertNoError(t, err, "analyze with SelectAll")
	if fromZero == nil || fromAll == nil {
		t.Fatal("expected results from both selections")
	}
	if fromZero.Metrics != fromAll.Metrics {
		t.Errorf("zero value and SelectAll disagree: %+v vs %+v", fromZero.Metrics, fromAll.Metrics)
	}
}
