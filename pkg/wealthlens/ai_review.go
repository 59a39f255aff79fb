package wealthlens

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

const (
	aiReviewTimeout        = 5 * time.Minute
	aiReviewMaxTokens      = 8192
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-3-5-sonnet-latest"
	defaultGeminiModel     = "gemini-2.0-flash"
	defaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/"
	defaultGeminiAPIVer    = "v1beta"
	reviewSummaryFallback  = "The model did not return a summary; retry or switch models."
	reviewDisclaimerPrompt = "This review is for information only and is not investment advice."
)

const portfolioReviewSystemPrompt = `You are a portfolio risk analyst reviewing an Indian equity portfolio.
You receive performance metrics (XIRR, beta against the NIFTY 50, Sharpe ratio, volatility, maximum drawdown) and the current allocation by position, sector, and asset type.
Respond with a single JSON object and nothing else. Required fields:
- summary: string
- risk_level: string (one of low, moderate, elevated, high)
- key_findings: string[]
- suggestions: [{symbol, action, rationale}] where action is one of increase/reduce/hold/add
- disclaimer: string
Do not promise returns. Flag concentration, drawdown exposure, and benchmark-relative risk where relevant.`

// PortfolioReviewRequest defines inputs for an AI portfolio review.
// Provider, BaseURL, and Model fall back to persisted settings when empty.
type PortfolioReviewRequest struct {
	APIKey    string
	Provider  string
	BaseURL   string
	Model     string
	Selection Selection
}

// ReviewSuggestion is one actionable item from the review.
type ReviewSuggestion struct {
	Symbol    string `json:"symbol,omitempty"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

// PortfolioReview is the structured review returned to clients.
type PortfolioReview struct {
	GeneratedAt string             `json:"generated_at"`
	Provider    string             `json:"provider"`
	Model       string             `json:"model"`
	Summary     string             `json:"summary"`
	RiskLevel   string             `json:"risk_level"`
	KeyFindings []string           `json:"key_findings"`
	Suggestions []ReviewSuggestion `json:"suggestions"`
	Disclaimer  string             `json:"disclaimer"`
}

type reviewModelResponse struct {
	Summary     string             `json:"summary"`
	RiskLevel   string             `json:"risk_level"`
	KeyFindings []string           `json:"key_findings"`
	Suggestions []ReviewSuggestion `json:"suggestions"`
	Disclaimer  string             `json:"disclaimer"`
}

type reviewPromptInput struct {
	AsOf       string      `json:"as_of"`
	Metrics    Metrics     `json:"metrics"`
	Allocation *Allocation `json:"allocation,omitempty"`
	CashFlows  []CashFlow  `json:"recent_cash_flows,omitempty"`
	Benchmark  string      `json:"benchmark"`
}

// ReviewPortfolio analyzes the selected portfolio and asks the configured
// AI provider for a structured risk review.
func (c *Core) ReviewPortfolio(ctx context.Context, req PortfolioReviewRequest) (*PortfolioReview, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return nil, NewError(ErrCodeValidation, "api_key is required")
	}

	settings, err := c.GetAISettings()
	if err != nil {
		return nil, err
	}
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		provider = settings.Provider
	}
	if _, ok := validAIProviders[provider]; !ok {
		return nil, NewError(ErrCodeUnsupported, "unsupported AI provider: "+provider)
	}
	baseURL := strings.TrimSpace(req.BaseURL)
	if baseURL == "" {
		baseURL = settings.BaseURL
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = settings.Model
	}
	if model == "" {
		model = defaultReviewModel(provider)
	}

	analysis, err := c.AnalyzePortfolio(req.Selection)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, NewError(ErrCodeNotFound, "no portfolio data available for review")
	}

	userPrompt, err := buildReviewUserPrompt(analysis)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, aiReviewTimeout)
	defer cancel()

	c.logger.Info("ai review: requesting completion", "provider", provider, "model", model)

	var content string
	switch provider {
	case AIProviderOpenAI:
		content, err = requestOpenAIReview(reqCtx, apiKey, baseURL, model, userPrompt)
	case AIProviderAnthropic:
		content, err = requestAnthropicReview(reqCtx, apiKey, baseURL, model, userPrompt)
	case AIProviderGemini:
		content, err = requestGeminiReview(reqCtx, apiKey, baseURL, model, userPrompt)
	}
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "AI review request failed", err)
	}

	parsed, err := parseReviewResponse(content)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "AI review returned malformed output", err)
	}

	review := &PortfolioReview{
		GeneratedAt: NowRFC3339InKolkata(),
		Provider:    provider,
		Model:       model,
		Summary:     strings.TrimSpace(parsed.Summary),
		RiskLevel:   strings.ToLower(strings.TrimSpace(parsed.RiskLevel)),
		KeyFindings: normalizeFindings(parsed.KeyFindings),
		Suggestions: normalizeSuggestions(parsed.Suggestions),
		Disclaimer:  strings.TrimSpace(parsed.Disclaimer),
	}
	if review.Summary == "" {
		review.Summary = reviewSummaryFallback
	}
	if review.RiskLevel == "" {
		review.RiskLevel = "unknown"
	}
	if review.Disclaimer == "" {
		review.Disclaimer = reviewDisclaimerPrompt
	}
	return review, nil
}

func defaultReviewModel(provider string) string {
	switch provider {
	case AIProviderAnthropic:
		return defaultAnthropicModel
	case AIProviderGemini:
		return defaultGeminiModel
	default:
		return defaultOpenAIModel
	}
}

func buildReviewUserPrompt(analysis *Analysis) (string, error) {
	input := reviewPromptInput{
		Benchmark:  BenchmarkSymbol,
		Metrics:    analysis.Metrics,
		Allocation: analysis.Allocation,
	}
	if n := len(analysis.Dates); n > 0 {
		input.AsOf = analysis.Dates[n-1]
	}
	// Only the tail of the flow history matters for the review prompt.
	if n := len(analysis.CashFlows); n > 10 {
		input.CashFlows = analysis.CashFlows[n-10:]
	} else {
		input.CashFlows = analysis.CashFlows
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshal review prompt input: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Review the following portfolio snapshot and respond with the required JSON object:\n")
	sb.Write(payload)
	return sb.String(), nil
}

func requestOpenAIReview(ctx context.Context, apiKey, baseURL, model, userPrompt string) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := oa.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(portfolioReviewSystemPrompt),
			oa.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func requestAnthropicReview(ctx context.Context, apiKey, baseURL, model, userPrompt string) (string, error) {
	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: aiReviewMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: portfolioReviewSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return sb.String(), nil
}

func requestGeminiReview(ctx context.Context, apiKey, baseURL, model, userPrompt string) (string, error) {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: defaultGeminiAPIVer,
		},
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: portfolioReviewSystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  aiReviewMaxTokens,
		ResponseMIMEType: "application/json",
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(userPrompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return content, nil
}

func parseReviewResponse(content string) (*reviewModelResponse, error) {
	cleaned := cleanupModelJSON(content)
	var parsed reviewModelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return &parsed, nil
}

// cleanupModelJSON strips code fences and surrounding prose so that the
// first balanced JSON object in the response can be decoded.
func cleanupModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.Join(lines, "\n")
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		trimmed = trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}

func normalizeFindings(findings []string) []string {
	result := make([]string, 0, len(findings))
	for _, item := range findings {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

func normalizeSuggestions(items []ReviewSuggestion) []ReviewSuggestion {
	result := make([]ReviewSuggestion, 0, len(items))
	for _, item := range items {
		action := strings.ToLower(strings.TrimSpace(item.Action))
		if action == "" {
			action = "hold"
		}
		rationale := strings.TrimSpace(item.Rationale)
		if rationale == "" {
			continue
		}
		result = append(result, ReviewSuggestion{
			Symbol:    strings.TrimSpace(item.Symbol),
			Action:    action,
			Rationale: rationale,
		})
	}
	return result
}
