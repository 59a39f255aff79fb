package wealthlens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultQuoteBaseURL   = "https://query1.finance.yahoo.com"
	maxQuoteResponseBytes = 1 << 20
)

// Quote client errors. Use errors.Is() to check for these conditions.
var (
	// ErrNoQuote indicates the data source returned no usable price.
	ErrNoQuote = errors.New("no quote data available")
)

type quoteClientOptions struct {
	BaseURL     string
	HTTPTimeout time.Duration
	Logger      *slog.Logger
}

// quoteClient fetches spot quotes from a chart-style JSON endpoint.
type quoteClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func newQuoteClient(opts quoteClientOptions) *quoteClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultQuoteBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &quoteClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: opts.HTTPTimeout},
		logger:  logger,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote returns the latest market price for a symbol.
func (q *quoteClient) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	symbol = normalizeSymbol(symbol)
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", q.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wealthlens/1.0")

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote endpoint returned %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxQuoteResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("read quote response: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse quote response for %s: %w", symbol, err)
	}
	if parsed.Chart.Error != nil {
		return 0, fmt.Errorf("%w: %s", ErrNoQuote, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return 0, ErrNoQuote
	}
	price := parsed.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, ErrNoQuote
	}
	return price, nil
}
