// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"coffee-scout/internal/common/errors"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PLACES_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env in the usual places so the binary behaves the same
// from the repo root, a cmd/ directory, or a package test.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills secrets from the environment when the config
// file left them empty (or pointed at an unset placeholder).
func overrideEmptyConfig(cfg *Config) {
	if cfg.Places.APIKey == "" || strings.HasPrefix(cfg.Places.APIKey, "${") {
		if val := os.Getenv("PLACES_API_KEY"); val != "" {
			cfg.Places.APIKey = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Places defaults
	if cfg.Places.BaseURL == "" {
		cfg.Places.BaseURL = "https://maps.googleapis.com/maps/api/place"
	}
	if cfg.Places.Radius == 0 {
		cfg.Places.Radius = 1500
	}
	if cfg.Places.Keyword == "" {
		cfg.Places.Keyword = "coffee"
	}
	if cfg.Places.Timeout == 0 {
		cfg.Places.Timeout = 10000
	}
	if cfg.Places.PageTokenDelay == 0 {
		cfg.Places.PageTokenDelay = 2000
	}
	if cfg.Places.MaxPages == 0 {
		cfg.Places.MaxPages = 3
	}
	if cfg.Places.RateLimitQPS == 0 {
		cfg.Places.RateLimitQPS = 2.0
	}

	// Export defaults
	if cfg.Export.Directory == "" {
		cfg.Export.Directory = "."
	}
	if cfg.Export.Label == "" && len(cfg.Areas) > 0 {
		cfg.Export.Label = cfg.Areas[0].Label
	}

	// Observability defaults
	if cfg.Observability.ListenAddress == "" {
		cfg.Observability.ListenAddress = ":9090"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. Every violation
// comes back as a CONFIG_INVALID error so startup can report the abort
// with its typed code.
func validateConfig(cfg *Config) error {
	// An unexpanded ${PLACES_API_KEY} placeholder means the env var was
	// never set; treat it the same as missing.
	if cfg.Places.APIKey == "" || strings.HasPrefix(cfg.Places.APIKey, "${") {
		return errors.NewConfigInvalidError("places.api_key is required (set PLACES_API_KEY)")
	}
	if cfg.Places.Radius <= 0 {
		return errors.NewConfigInvalidError("places.radius must be positive")
	}
	if cfg.Places.MaxPages < 1 {
		return errors.NewConfigInvalidError("places.max_pages must be at least 1")
	}
	if cfg.Places.PageTokenDelay < 0 {
		return errors.NewConfigInvalidError("places.page_token_delay must not be negative")
	}

	if len(cfg.Areas) == 0 {
		return errors.NewConfigInvalidError("at least one search area is required")
	}
	for i, area := range cfg.Areas {
		if area.Label == "" {
			return errors.NewConfigInvalidError(fmt.Sprintf("areas[%d].label is required", i))
		}
		if _, _, err := area.Coordinates(); err != nil {
			return errors.NewConfigInvalidError(fmt.Sprintf("areas[%d]: %v", i, err))
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
