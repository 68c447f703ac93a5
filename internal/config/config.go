package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dotcommander/geolint/internal/scoring"
)

// LLM providers.
const (
	ProviderAuto   = "auto"
	ProviderNone   = "none"
	ProviderGemini = "gemini"
)

// ConfigFiles are the config file names looked up in the root directory,
// then the working directory.
var ConfigFiles = []string{".geolintrc.json", ".geolintrc.yaml", ".geolintrc.yml"}

// Config represents the geolint configuration
type Config struct {
	Root        string            `mapstructure:"root" json:"root"`
	Include     []string          `mapstructure:"include" json:"include"`
	Exclude     []string          `mapstructure:"exclude" json:"exclude"`
	Format      string            `mapstructure:"format" json:"format"`
	Output      string            `mapstructure:"output" json:"output,omitempty"`
	FailOn      string            `mapstructure:"failOn" json:"failOn"`
	Quiet       bool              `mapstructure:"quiet" json:"quiet"`
	Verbose     bool              `mapstructure:"verbose" json:"verbose"`
	Concurrency int               `mapstructure:"concurrency" json:"concurrency"`
	Benchmark   scoring.Benchmark `mapstructure:"benchmark" json:"benchmark"`
	LLM         LLMConfig         `mapstructure:"llm" json:"llm"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// LLMConfig selects the text-analysis collaborator.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" json:"provider"`
	Model    string        `mapstructure:"model" json:"model,omitempty"`
	APIKey   string        `mapstructure:"apiKey" json:"-"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout"`
}

// ResolvedProvider returns the provider to use, resolving auto to gemini
// when an API key is available.
func (c LLMConfig) ResolvedProvider() string {
	if c.Provider != ProviderAuto {
		return c.Provider
	}
	if c.APIKey != "" {
		return ProviderGemini
	}
	return ProviderNone
}

// LoadConfig loads configuration from defaults, config files, environment
// variables and bound flags, in increasing precedence.
func LoadConfig(rootPath string) (*Config, error) {
	viper.SetDefault("root", ".")
	viper.SetDefault("include", []string{"**/*.md", "**/*.html", "**/*.htm", "**/*.jsonld"})
	viper.SetDefault("exclude", []string{"node_modules/**", ".git/**", "vendor/**"})
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("failOn", "error")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("benchmark.mean", scoring.DefaultBenchmarkMean)
	viper.SetDefault("benchmark.stddev", scoring.DefaultBenchmarkStdDev)
	viper.SetDefault("llm.provider", ProviderAuto)
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.apiKey", "")
	viper.SetDefault("llm.timeout", 60*time.Second)

	// Environment variables
	viper.SetEnvPrefix("GEOLINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("llm.apiKey", "GEOLINT_LLM_APIKEY", "GEMINI_API_KEY")

	configFile, err := readConfigFile(rootPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.ConfigFile = configFile

	// Override root if provided
	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// readConfigFile reads the first config file found. A file that exists but
// cannot be parsed is an error.
func readConfigFile(rootPath string) (string, error) {
	dirs := []string{"."}
	if rootPath != "" && rootPath != "." {
		dirs = []string{rootPath, "."}
	}
	for _, dir := range dirs {
		for _, name := range ConfigFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return "", fmt.Errorf("error reading config file %s: %w", path, err)
			}
			return path, nil
		}
	}
	return "", nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Validate format
	switch config.Format {
	case "console", "compact", "json", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'compact', 'json', or 'markdown'", config.Format)
	}

	// Validate failOn level
	if config.FailOn != "error" && config.FailOn != "warning" && config.FailOn != "none" {
		return fmt.Errorf("invalid fail-on level: %s. Must be 'error', 'warning', or 'none'", config.FailOn)
	}

	// Validate concurrency
	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.Benchmark.StdDev <= 0 {
		return fmt.Errorf("benchmark.stddev must be positive")
	}

	switch config.LLM.Provider {
	case ProviderAuto, ProviderNone, ProviderGemini:
	default:
		return fmt.Errorf("invalid llm.provider: %s. Must be 'auto', 'none', or 'gemini'", config.LLM.Provider)
	}
	if config.LLM.Provider == ProviderGemini && config.LLM.APIKey == "" {
		return fmt.Errorf("llm.provider 'gemini' requires llm.apiKey or GEMINI_API_KEY")
	}
	if config.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
