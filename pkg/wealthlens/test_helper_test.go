package wealthlens

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database for testing and returns a Core instance.
// The caller should defer cleanup() to remove the temp file.
func setupTestDB(t *testing.T) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "wealthlens-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	core, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

// buyTx builds a buy transaction for in-memory analysis tests.
func buyTx(id int64, date, symbol string, qty, price, charges float64) Transaction {
	return Transaction{
		ID:              id,
		Date:            date,
		Symbol:          symbol,
		TransactionType: "buy",
		Quantity:        qty,
		Price:           price,
		Charges:         charges,
	}
}

// sellTx builds a sell transaction for in-memory analysis tests.
func sellTx(id int64, date, symbol string, qty, price, charges float64) Transaction {
	return Transaction{
		ID:              id,
		Date:            date,
		Symbol:          symbol,
		TransactionType: "sell",
		Quantity:        qty,
		Price:           price,
		Charges:         charges,
	}
}

// testBuyTransaction records a buy through the store.
func testBuyTransaction(t *testing.T, core *Core, date, symbol string, qty, price float64) int64 {
	t.Helper()
	id, err := core.AddTransaction(AddTransactionRequest{
		Date:            date,
		Symbol:          symbol,
		TransactionType: "buy",
		Quantity:        qty,
		Price:           price,
	})
	if err != nil {
		t.Fatalf("failed to create test buy transaction: %v", err)
	}
	return id
}

// testSellTransaction records a sell through the store.
func testSellTransaction(t *testing.T, core *Core, date, symbol string, qty, price float64) int64 {
	t.Helper()
	id, err := core.AddTransaction(AddTransactionRequest{
		Date:            date,
		Symbol:          symbol,
		TransactionType: "sell",
		Quantity:        qty,
		Price:           price,
	})
	if err != nil {
		t.Fatalf("failed to create test sell transaction: %v", err)
	}
	return id
}

// mustSelect builds a selection or fails the test.
func mustSelect(t *testing.T, symbols ...string) Selection {
	t.Helper()
	sel, err := SelectSymbols(symbols...)
	if err != nil {
		t.Fatalf("failed to build selection: %v", err)
	}
	return sel
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// assertErrorCode fails the test if err does not carry the given code.
func assertErrorCode(t *testing.T, err error, code ErrorCode, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error with code %s but got nil", msg, code)
	}
	if !IsErrorCode(err, code) {
		t.Errorf("%s: expected error code %s, got: %v", msg, code, err)
	}
}

// flatBenchmarkPanel builds a panel with the benchmark at a constant
// price across the given dates.
func flatBenchmarkPanel(dates []string, price float64) *PricePanel {
	panel := NewPricePanel(BenchmarkSymbol)
	for _, d := range dates {
		panel.SetClose(d, BenchmarkSymbol, price)
	}
	return panel
}
