// internal/places/config.go
package places

import "time"

type Config struct {
	BaseURL string
	APIKey  string
	Radius  int
	Keyword string
	Timeout time.Duration
}

// LoadConfig returns the built-in provider defaults. The API key has no
// default; callers supply it from configuration.
func LoadConfig() *Config {
	return &Config{
		BaseURL: "https://maps.googleapis.com/maps/api/place",
		Radius:  1500,
		Keyword: "coffee",
		Timeout: 10 * time.Second,
	}
}
