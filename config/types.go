package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TaxJar  TaxJarConfig  `mapstructure:"taxjar"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TaxJarConfig holds TaxJar API connection details
type TaxJarConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	APIURL    string        `mapstructure:"api_url"`
	Sandbox   bool          `mapstructure:"sandbox"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
