package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

const appName = "gitgrade"

type Config struct {
	Global    GlobalConfig    `yaml:"global"`
	Narrative NarrativeConfig `yaml:"narrative"`
}

type GlobalConfig struct {
	Concurrency int    `yaml:"concurrency"`
	GitHubToken string `yaml:"github_token,omitempty"`
	Timeout     string `yaml:"timeout"` // per repository, e.g. "2m"
}

type NarrativeConfig struct {
	Provider    string  `yaml:"provider"` // auto, openrouter, gemini, none
	Model       string  `yaml:"model,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Global: GlobalConfig{
			Concurrency: 5,
			Timeout:     "2m",
		},
		Narrative: NarrativeConfig{
			Provider:    "auto",
			MaxTokens:   1000,
			Temperature: 0.7,
			Timeout:     "30s",
		},
	}
}

func GetConfigPath() (string, error) {
	// Respect XDG_CONFIG_HOME if set (useful for testing and Linux users)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName, "config.yaml"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, "config.yaml"), nil
}

// Load reads the first configuration file found, in order: ./config.yaml,
// the user config file and $HOME/.gitgrade.yaml. Missing files leave the
// defaults in place.
func Load() (*Config, error) {
	paths := []string{"config.yaml"} // Local override

	if p, err := GetConfigPath(); err == nil {
		paths = append(paths, p)
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, "."+appName+".yaml"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return Default(), nil
}

// LoadFile reads one configuration file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the user's config file
func Save(cfg *Config) (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("error getting config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("error marshaling config: %w", err)
	}

	// The file may hold tokens.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return "", fmt.Errorf("error writing config file: %w", err)
	}
	return configPath, nil
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if c.Global.Concurrency < 1 {
		return fmt.Errorf("global.concurrency must be at least 1, got %d", c.Global.Concurrency)
	}
	if _, err := c.Global.RepoTimeout(); err != nil {
		return err
	}
	switch c.Narrative.Provider {
	case "", "auto", "openrouter", "gemini", "none":
	default:
		return fmt.Errorf("narrative.provider must be one of auto, openrouter, gemini, none; got %q", c.Narrative.Provider)
	}
	if _, err := c.Narrative.RequestTimeout(); err != nil {
		return err
	}
	if c.Narrative.Temperature < 0 || c.Narrative.Temperature > 2 {
		return fmt.Errorf("narrative.temperature must be within [0, 2], got %v", c.Narrative.Temperature)
	}
	return nil
}

// RepoTimeout is the time budget for analysing one repository. Zero means none.
func (g GlobalConfig) RepoTimeout() (time.Duration, error) {
	return parseDuration("global.timeout", g.Timeout)
}

// RequestTimeout bounds a single narrative backend call.
func (n NarrativeConfig) RequestTimeout() (time.Duration, error) {
	return parseDuration("narrative.timeout", n.Timeout)
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration for %s: %q. Use e.g. '30s' or '2m'", key, s)
	}
	return d, nil
}

// Environment variables holding narrative backend keys.
const (
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
)

// ResolveProvider returns the concrete provider and its API key. A key in
// the config file wins over the environment. "auto" picks OpenRouter when a
// key for it exists, then Gemini, then none.
func (n NarrativeConfig) ResolveProvider(getenv func(string) string) (provider, apiKey string) {
	switch n.Provider {
	case "none":
		return "none", ""
	case "openrouter":
		return "openrouter", firstNonEmpty(n.APIKey, getenv(EnvOpenRouterKey))
	case "gemini":
		return "gemini", firstNonEmpty(n.APIKey, getenv(EnvGeminiKey))
	}

	if n.APIKey != "" {
		return "openrouter", n.APIKey
	}
	if k := getenv(EnvOpenRouterKey); k != "" {
		return "openrouter", k
	}
	if k := getenv(EnvGeminiKey); k != "" {
		return "gemini", k
	}
	return "none", ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// LoadEnv loads variables from the given .env files (default ./.env)
// without overriding ones already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}
