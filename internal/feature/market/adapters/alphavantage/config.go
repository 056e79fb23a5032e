// Package alphavantage provides a client for the Alpha Vantage stock market API.
package alphavantage

import (
	"os"
)

// Config holds configuration for the Alpha Vantage API client.
// Request timeouts are owned by the injected http.Client.
type Config struct {
	APIKey  string // API key for authentication (empty disables the client)
	BaseURL string // Base URL for the API (e.g., "https://www.alphavantage.co")
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: "https://www.alphavantage.co",
	}
	if v := os.Getenv("ALPHA_VANTAGE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}
