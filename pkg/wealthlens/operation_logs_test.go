package wealthlens

import (
	"testing"
)

func TestAddOperationLog(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	symbol := "TCS"
	value := NewAmount(35000)
	id, err := core.AddOperationLog(OperationLog{
		Operation: "upsert_holding",
		Symbol:    &symbol,
		NewValue:  &value,
	})
	assertNoError(t, err, "add operation log")
	if id == "" {
		t.Fatal("expected a generated id")
	}

	logs, err := core.GetOperationLogs(10, 0)
	assertNoError(t, err, "get operation logs")
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	entry := logs[0]
	if entry.ID != id {
		t.Errorf("expected id %s, got %s", id, entry.ID)
	}
	if entry.Operation != "upsert_holding" {
		t.Errorf("unexpected operation: %s", entry.Operation)
	}
	if entry.Symbol == nil || *entry.Symbol != "TCS" {
		t.Error("symbol not persisted")
	}
	if entry.NewValue == nil {
		t.Fatal("new value not persisted")
	}
	assertFloatEquals(t, entry.NewValue.InexactFloat64(), 35000, "new value")
	if entry.CreatedAt == nil || *entry.CreatedAt == "" {
		t.Error("created_at not populated")
	}
}

func TestAddOperationLogRequiresOperation(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := core.AddOperationLog(OperationLog{})
	assertErrorCode(t, err, ErrCodeValidation, "missing operation type")
}

func TestMutationsAreAudited(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	id := testBuyTransaction(t, core, "2024-01-01", "TCS", 10, 100)
	assertNoError(t, core.UpsertHolding(Holding{Symbol: "TCS", Quantity: 10, AvgPrice: 100}), "upsert")
	deleted, err := core.DeleteTransaction(id)
	assertNoError(t, err, "delete")
	if !deleted {
		t.Fatal("expected deletion")
	}

	logs, err := core.GetOperationLogs(50, 0)
	assertNoError(t, err, "get logs")
	if len(logs) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(logs))
	}

	seen := map[string]bool{}
	for _, entry := range logs {
		seen[entry.Operation] = true
	}
	for _, op := range []string{"add_transaction", "upsert_holding", "delete_transaction"} {
		if !seen[op] {
			t.Errorf("missing audit entry for %s", op)
		}
	}
}

func TestGetOperationLogsPaging(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		testBuyTransaction(t, core, "2024-01-01", "TCS", 1, 100)
	}

	page, err := core.GetOperationLogs(2, 0)
	assertNoError(t, err, "first page")
	if len(page) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page))
	}

	rest, err := core.GetOperationLogs(10, 2)
	assertNoError(t, err, "offset page")
	if len(rest) != 3 {
		t.Fatalf("expected 3 entries after offset, got %d", len(rest))
	}
}
