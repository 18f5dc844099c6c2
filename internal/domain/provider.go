package domain

import "time"

// SettingDefaultProvider names the provider translate uses when none is given.
const SettingDefaultProvider = "provider.default"

// Provider is a configured LLM endpoint. Type selects the wire protocol
// (ollama, openrouter, openai); BaseURL is empty for the public endpoint.
type Provider struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	BaseURL    string    `json:"base_url"`
	Model      string    `json:"model"`
	APIKey     string    `json:"api_key"`
	OptionsRaw string    `json:"options_json"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProviderModel is one entry of the model list last fetched from a provider.
type ProviderModel struct {
	ID         int64     `json:"id"`
	ProviderID int64     `json:"provider_id"`
	Name       string    `json:"name"`
	UpdatedAt  time.Time `json:"updated_at"`
}
