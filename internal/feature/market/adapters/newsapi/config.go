// Package newsapi provides a client for the NewsAPI article search service,
// with a static fallback when the provider is unavailable.
package newsapi

import (
	"os"
)

// Config holds configuration for the NewsAPI client.
// Request timeouts are owned by the injected http.Client.
type Config struct {
	APIKey  string // API key for authentication (empty forces fallback links)
	BaseURL string // Base URL for the API (e.g., "https://newsapi.org")
}

// LoadConfig loads NewsAPI configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("NEWS_API_KEY"),
		BaseURL: "https://newsapi.org",
	}
	if v := os.Getenv("NEWS_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}
