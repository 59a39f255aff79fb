package wealthlens

import (
	"database/sql"
	"strings"
)

// AI provider identifiers accepted by the review engine.
const (
	AIProviderOpenAI    = "openai"
	AIProviderAnthropic = "anthropic"
	AIProviderGemini    = "gemini"
)

var validAIProviders = map[string]struct{}{
	AIProviderOpenAI:    {},
	AIProviderAnthropic: {},
	AIProviderGemini:    {},
}

// AISettings holds review-engine configuration. The API key is never
// persisted; it is supplied per request or via environment.
type AISettings struct {
	Provider string `json:"provider"`
	BaseURL  string `json:"base_url"`
	Model    string `json:"model"`
}

func defaultAISettings() AISettings {
	return AISettings{
		Provider: AIProviderOpenAI,
		BaseURL:  "",
		Model:    "",
	}
}

func normalizeAISettings(settings AISettings) AISettings {
	normalized := settings
	normalized.Provider = strings.ToLower(strings.TrimSpace(normalized.Provider))
	normalized.BaseURL = strings.TrimRight(strings.TrimSpace(normalized.BaseURL), "/")
	normalized.Model = strings.TrimSpace(normalized.Model)
	if _, ok := validAIProviders[normalized.Provider]; !ok {
		normalized.Provider = AIProviderOpenAI
	}
	return normalized
}

// GetAISettings returns the persisted review-engine settings.
func (c *Core) GetAISettings() (AISettings, error) {
	settings := defaultAISettings()

	err := c.db.QueryRow(`
		SELECT provider, base_url, model
		FROM ai_settings
		WHERE id = 1
	`).Scan(&settings.Provider, &settings.BaseURL, &settings.Model)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return AISettings{}, WrapError(ErrCodeDatabase, "failed to load AI settings", err)
	}
	return normalizeAISettings(settings), nil
}

// SetAISettings persists review-engine settings and returns the
// normalized values.
func (c *Core) SetAISettings(settings AISettings) (AISettings, error) {
	normalized := normalizeAISettings(settings)

	_, err := c.db.Exec(`
		INSERT INTO ai_settings (id, provider, base_url, model, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			provider = excluded.provider,
			base_url = excluded.base_url,
			model = excluded.model,
			updated_at = CURRENT_TIMESTAMP
	`, normalized.Provider, normalized.BaseURL, normalized.Model)
	if err != nil {
		return AISettings{}, WrapError(ErrCodeDatabase, "failed to save AI settings", err)
	}
	return normalized, nil
}
