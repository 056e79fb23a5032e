// Package yahoo はYahoo Finance公開APIから気配値と価格履歴を取得するクライアントを提供します。
package yahoo

import (
	"os"
	"strings"
)

// Config holds configuration for the Yahoo Finance client.
// Request timeouts are owned by the injected http.Client.
type Config struct {
	BaseURLs []string // Mirror hosts in priority order (query1, query2)
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
// YAHOO_BASE_URLS accepts a comma-separated mirror list for testing/overrides.
func LoadConfig() Config {
	cfg := Config{
		BaseURLs: []string{
			"https://query1.finance.yahoo.com",
			"https://query2.finance.yahoo.com",
		},
	}
	if v := os.Getenv("YAHOO_BASE_URLS"); v != "" {
		cfg.BaseURLs = strings.Split(v, ",")
	}
	return cfg
}
