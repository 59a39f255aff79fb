package mobile

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func setupMobileCore(t *testing.T) *Core {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	core, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = core.Close()
	})
	return core
}

func TestMobileCoreJSONFlows(t *testing.T) {
	core := setupMobileCore(t)

	payload := map[string]any{
		"date":             "2024-01-10",
		"symbol":           "tcs",
		"transaction_type": "BUY",
		"quantity":         10,
		"price":            100,
		"charges":          5,
	}
	payloadBytes, _ := json.Marshal(payload)
	resp, err := core.AddTransactionJSON(string(payloadBytes))
	if err != nil {
		t.Fatalf("AddTransactionJSON: %v", err)
	}
	var addResp map[string]any
	if err := json.Unmarshal([]byte(resp), &addResp); err != nil {
		t.Fatalf("unmarshal add response: %v", err)
	}
	idFloat, ok := addResp["id"].(float64)
	if !ok || idFloat <= 0 {
		t.Fatalf("expected positive id, got %v", addResp["id"])
	}

	listJSON, err := core.GetTransactionsJSON(`{"symbol":"TCS","limit":10}`)
	if err != nil {
		t.Fatalf("GetTransactionsJSON: %v", err)
	}
	var transactions []map[string]any
	if err := json.Unmarshal([]byte(listJSON), &transactions); err != nil {
		t.Fatalf("unmarshal transactions: %v", err)
	}
	if len(transactions) != 1 || transactions[0]["symbol"] != "TCS" {
		t.Fatalf("unexpected transactions: %v", transactions)
	}

	if _, err := core.GetHoldingsJSON(); err != nil {
		t.Fatalf("GetHoldingsJSON: %v", err)
	}

	if err := core.UpdateLatestPrice("TCS", 123.45); err != nil {
		t.Fatalf("UpdateLatestPrice: %v", err)
	}

	allocationJSON, err := core.GetAllocationJSON("")
	if err != nil {
		t.Fatalf("GetAllocationJSON: %v", err)
	}
	var allocation map[string]any
	if err := json.Unmarshal([]byte(allocationJSON), &allocation); err != nil {
		t.Fatalf("unmarshal allocation: %v", err)
	}

	deleted, err := core.DeleteTransaction(int64(idFloat))
	if err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete to return true")
	}
}

func TestMobileCoreAnalyzeEmptyLedger(t *testing.T) {
	core := setupMobileCore(t)

	resp, err := core.AnalyzeJSON("")
	if err != nil {
		t.Fatalf("AnalyzeJSON: %v", err)
	}
	if resp != "null" {
		t.Fatalf("expected null for empty ledger, got %q", resp)
	}
}

func TestMobileCoreInvalidJSON(t *testing.T) {
	core := setupMobileCore(t)

	if _, err := core.GetTransactionsJSON("{bad json}"); err == nil {
		t.Fatalf("expected error for invalid filter JSON")
	}
	if _, err := core.AddTransactionJSON("{bad json}"); err == nil {
		t.Fatalf("expected error for invalid transaction JSON")
	}
}

func TestMobileCoreCloseNil(t *testing.T) {
	var c *Core
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
