package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"wealthlens/pkg/wealthlens"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{
		"status": "ok",
		"time":   wealthlens.NowRFC3339InKolkata(),
	})
}

// Holdings

func (h *handler) getHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.core.GetHoldings()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, holdings)
}

func (h *handler) upsertHolding(w http.ResponseWriter, r *http.Request) {
	var payload holdingPayload
	if err := decodeBody(r, &payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	holding := wealthlens.Holding{
		Symbol:    payload.Symbol,
		Name:      payload.Name,
		AssetType: payload.AssetType,
		Sector:    payload.Sector,
		Quantity:  payload.Quantity,
		AvgPrice:  payload.AvgPrice,
	}
	if err := h.core.UpsertHolding(holding); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "holding saved", nil)
}

func (h *handler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	deleted, err := h.core.DeleteHolding(symbol)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeErrorResponse(w, http.StatusNotFound, wealthlens.NewError(wealthlens.ErrCodeNotFound, "holding not found"))
		return
	}
	writeSuccessWithMessage(w, "holding deleted", nil)
}

// Transactions

func (h *handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := wealthlens.TransactionFilter{
		Symbol:          query.Get("symbol"),
		TransactionType: query.Get("type"),
		StartDate:       query.Get("start_date"),
		EndDate:         query.Get("end_date"),
		Limit:           queryInt(query.Get("limit")),
		Offset:          queryInt(query.Get("offset")),
	}

	transactions, err := h.core.GetTransactions(filter)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, transactions)
}

func (h *handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.core.AddTransaction(wealthlens.AddTransactionRequest{
		Date:            payload.Date,
		Symbol:          payload.Symbol,
		TransactionType: payload.TransactionType,
		Quantity:        payload.Quantity,
		Price:           payload.Price,
		Charges:         payload.Charges,
		Notes:           payload.Notes,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "transaction recorded", map[string]int64{"id": id})
}

func (h *handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	transaction, err := h.core.GetTransaction(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if transaction == nil {
		writeErrorResponse(w, http.StatusNotFound, wealthlens.NewError(wealthlens.ErrCodeNotFound, "transaction not found"))
		return
	}
	writeSuccess(w, transaction)
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	deleted, err := h.core.DeleteTransaction(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeErrorResponse(w, http.StatusNotFound, wealthlens.NewError(wealthlens.ErrCodeNotFound, "transaction not found"))
		return
	}
	writeSuccessWithMessage(w, "transaction deleted", nil)
}

// Analysis

func (h *handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	selection, err := selectionFromList(r.URL.Query().Get("symbols"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	analysis, err := h.core.AnalyzePortfolio(selection)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if analysis == nil {
		writeSuccessWithMessage(w, "no portfolio data", nil)
		return
	}
	writeSuccess(w, analysis)
}

func (h *handler) getAllocation(w http.ResponseWriter, r *http.Request) {
	selection, err := selectionFromList(r.URL.Query().Get("symbols"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	allocation, err := h.core.GetAllocation(selection)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, allocation)
}

func (h *handler) getCashFlowHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query().Get("limit"))
	history, err := h.core.GetCashFlowHistory(limit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, history)
}

// Prices

func (h *handler) getLatestPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.core.GetAllLatestPrices()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, prices)
}

func (h *handler) updateLatestPrice(w http.ResponseWriter, r *http.Request) {
	var payload pricePayload
	if err := decodeBody(r, &payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	if err := h.core.UpdateLatestPrice(payload.Symbol, payload.Price); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "price updated", nil)
}

func (h *handler) refreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.core.RefreshAllPrices(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, result)
}

func (h *handler) simulatePrices(w http.ResponseWriter, r *http.Request) {
	var payload simulatePayload
	if err := decodeBody(r, &payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	days, err := h.core.SimulateAndStorePrices(wealthlens.SimulateOptions{
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Symbols:   payload.Symbols,
		Seed:      payload.Seed,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "price history generated", map[string]int{"days": days})
}

// AI review

func (h *handler) getAISettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.core.GetAISettings()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, settings)
}

func (h *handler) setAISettings(w http.ResponseWriter, r *http.Request) {
	var settings wealthlens.AISettings
	if err := decodeBody(r, &settings); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	saved, err := h.core.SetAISettings(settings)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "settings saved", saved)
}

func (h *handler) reviewPortfolio(w http.ResponseWriter, r *http.Request) {
	var payload reviewPayload
	if err := decodeBody(r, &payload); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	selection, err := selectionFromSymbols(payload.Symbols)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}

	review, err := h.core.ReviewPortfolio(r.Context(), wealthlens.PortfolioReviewRequest{
		APIKey:    payload.APIKey,
		Provider:  payload.Provider,
		BaseURL:   payload.BaseURL,
		Model:     payload.Model,
		Selection: selection,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, review)
}

// Operation logs

func (h *handler) getOperationLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	logs, err := h.core.GetOperationLogs(queryInt(query.Get("limit")), queryInt(query.Get("offset")))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, logs)
}

// Helpers

func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return wealthlens.WrapError(wealthlens.ErrCodeInvalidInput, "invalid request body", err)
	}
	return nil
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, wealthlens.NewError(wealthlens.ErrCodeInvalidInput, "invalid id")
	}
	return id, nil
}

func queryInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// selectionFromList parses a comma-separated symbols parameter. An
// absent parameter or the sentinel "ALL" selects the whole ledger.
func selectionFromList(raw string) (wealthlens.Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return wealthlens.SelectAll(), nil
	}
	return selectionFromSymbols(strings.Split(raw, ","))
}

func selectionFromSymbols(symbols []string) (wealthlens.Selection, error) {
	cleaned := symbols[:0]
	for _, symbol := range symbols {
		if strings.TrimSpace(symbol) != "" {
			cleaned = append(cleaned, symbol)
		}
	}
	if len(cleaned) == 0 {
		return wealthlens.SelectAll(), nil
	}
	return wealthlens.SelectSymbols(cleaned...)
}
