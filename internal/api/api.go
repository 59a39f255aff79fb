package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wealthlens/pkg/wealthlens"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *wealthlens.Core) http.Handler {
	logger := slog.Default()
	if core != nil {
		logger = core.Logger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(requestLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core}

	r.Get("/api/health", h.health)

	// Holdings
	r.Get("/api/holdings", h.getHoldings)
	r.Put("/api/holdings", h.upsertHolding)
	r.Delete("/api/holdings/{symbol}", h.deleteHolding)

	// Transactions
	r.Get("/api/transactions", h.getTransactions)
	r.Post("/api/transactions", h.addTransaction)
	r.Get("/api/transactions/{id}", h.getTransaction)
	r.Delete("/api/transactions/{id}", h.deleteTransaction)

	// Analysis
	r.Get("/api/analysis", h.getAnalysis)
	r.Get("/api/allocation", h.getAllocation)
	r.Get("/api/cash-flow-history", h.getCashFlowHistory)

	// Charts
	r.Get("/api/charts/performance.png", h.performanceChart)
	r.Get("/api/charts/drawdown.png", h.drawdownChart)

	// Prices
	r.Get("/api/prices/latest", h.getLatestPrices)
	r.Put("/api/prices/latest", h.updateLatestPrice)
	r.Post("/api/prices/refresh", h.refreshPrices)
	r.Post("/api/prices/simulate", h.simulatePrices)

	// AI review
	r.Get("/api/ai/settings", h.getAISettings)
	r.Put("/api/ai/settings", h.setAISettings)
	r.Post("/api/ai/review", h.reviewPortfolio)

	// Operation logs
	r.Get("/api/operation-logs", h.getOperationLogs)

	return r
}

type handler struct {
	core *wealthlens.Core
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
