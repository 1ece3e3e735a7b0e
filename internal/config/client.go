package config

import (
	"strings"
)

// ClientConfig configures the history CLI.  Command-line flags override
// every field.
type ClientConfig struct {
	Server   string // base URL of the reservation service
	Token    string // bearer token; empty means "use stored credentials"
	PageSize int    // reservations per page
	Lang     string // message catalog language ("en" or "vi")
}

// LoadClient reads HISTORY_SERVER, HISTORY_TOKEN, HISTORY_PAGE_SIZE and
// HISTORY_LANG.
func LoadClient() ClientConfig {
	cfg := ClientConfig{
		Server:   strings.TrimRight(getenv("HISTORY_SERVER", "http://localhost:8080"), "/"),
		Token:    getenv("HISTORY_TOKEN", ""),
		PageSize: envInt("HISTORY_PAGE_SIZE", 10),
		Lang:     strings.ToLower(getenv("HISTORY_LANG", "en")),
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		cfg.PageSize = 10
	}
	return cfg
}
