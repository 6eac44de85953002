// internal/common/config/config.go
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Places        PlacesConfig        `mapstructure:"places"`
	Areas         []AreaConfig        `mapstructure:"areas"`
	Filter        FilterConfig        `mapstructure:"filter"`
	Export        ExportConfig        `mapstructure:"export"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// --- Places Provider Config ---

// PlacesConfig holds settings for the places-search provider.
// The API key is never checked in; it arrives via PLACES_API_KEY.
type PlacesConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Radius         int     `mapstructure:"radius"`  // meters
	Keyword        string  `mapstructure:"keyword"` // nearby-search keyword parameter
	Timeout        int     `mapstructure:"timeout"` // milliseconds, per HTTP call
	PageTokenDelay int     `mapstructure:"page_token_delay"` // milliseconds; provider-side token validity delay
	MaxPages       int     `mapstructure:"max_pages"`
	RateLimitQPS   float64 `mapstructure:"rate_limit_qps"` // client-side politeness throttle
}

// AreaConfig names one search center. Areas are a list, not a map:
// iteration order is part of the output contract.
type AreaConfig struct {
	Label    string `mapstructure:"label"`
	Location string `mapstructure:"location"` // "lat,lng"
}

// Coordinates parses the "lat,lng" location string.
func (a AreaConfig) Coordinates() (float64, float64, error) {
	parts := strings.Split(a.Location, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("location %q is not \"lat,lng\"", a.Location)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in %q: %w", a.Location, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in %q: %w", a.Location, err)
	}
	return lat, lng, nil
}

// --- Pipeline Config ---

// FilterConfig points at an optional relevance profile file. When the path
// is empty the compiled-in coffee defaults apply.
type FilterConfig struct {
	ProfilePath string `mapstructure:"profile_path"`
}

// ExportConfig holds CSV output settings. Label feeds the output filename;
// when empty the first area's label is used.
type ExportConfig struct {
	Label     string `mapstructure:"label"`
	Directory string `mapstructure:"directory"`
}

// --- Observability Config ---

type ObservabilityConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ListenAddress  string `mapstructure:"listen_address"`
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
