package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/taxjar-go/taxjar"
)

// Load loads the configuration from file and environment. The file is
// optional unless configPath is given explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// TAXJAR_API_KEY, TAXJAR_API_URL, TAXJAR_SANDBOX, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"taxjar.api_key", "taxjar.api_url", "taxjar.sandbox", "taxjar.timeout"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".taxjar"))
		}

		// Check /etc
		v.AddConfigPath("/etc/taxjar/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TaxJar defaults
	v.SetDefault("taxjar.api_url", taxjar.DefaultAPIURL)
	v.SetDefault("taxjar.sandbox", false)
	v.SetDefault("taxjar.timeout", "30s")

	// Output defaults
	v.SetDefault("output.format", "text")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// EffectiveAPIURL returns the sandbox endpoint when sandbox mode is on and
// no custom URL was configured.
func (c *TaxJarConfig) EffectiveAPIURL() string {
	if c.Sandbox && (c.APIURL == "" || c.APIURL == taxjar.DefaultAPIURL) {
		return taxjar.SandboxAPIURL
	}
	if c.APIURL == "" {
		return taxjar.DefaultAPIURL
	}
	return c.APIURL
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TaxJar.APIKey == "your-api-key-here" {
		return fmt.Errorf("taxjar.api_key must be set to a valid API key")
	}

	if cfg.TaxJar.Timeout < 0 {
		return fmt.Errorf("taxjar.timeout must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return fmt.Errorf("invalid output.format: %s (must be 'text' or 'json')", cfg.Output.Format)
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}
