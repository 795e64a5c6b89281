package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/lookbusy1344/deci/decimal"
)

// Config represents deci's application-level configuration: how values are
// displayed, how the interactive console behaves, and how the HTTP/WebSocket
// service is exposed. This is layered above the decimal package, which has
// no configuration of its own (every kernel operation is pure).
type Config struct {
	// Display settings control how Decimal values are rendered back to text.
	Display struct {
		DecimalPoint  string `toml:"decimal_point"` // "." or ","
		ScientificMin int    `toml:"scientific_min"` // e' <= this triggers scientific notation
		ScientificMax int    `toml:"scientific_max"` // e' > this triggers scientific notation
		CurrencySign  string `toml:"currency_sign"`  // optional leading symbol, e.g. "$"
	} `toml:"display"`

	// Console settings control the interactive REPL/TUI.
	Console struct {
		HistorySize  int    `toml:"history_size"`
		DefaultRound string `toml:"default_round_mode"` // one of the RoundMode names
		Prompt       string `toml:"prompt"`
		UseTUI       bool   `toml:"use_tui"`
	} `toml:"console"`

	// Service settings control the HTTP/WebSocket API.
	Service struct {
		ListenAddr     string `toml:"listen_addr"`
		EnableCORS     bool   `toml:"enable_cors"`
		MaxBatchSize   int    `toml:"max_batch_size"`
		HistoryBufSize int    `toml:"history_buffer_size"`
	} `toml:"service"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.DecimalPoint = "."
	cfg.Display.ScientificMin = -6
	cfg.Display.ScientificMax = 26
	cfg.Display.CurrencySign = ""

	cfg.Console.HistorySize = 1000
	cfg.Console.DefaultRound = "half-even"
	cfg.Console.Prompt = "deci> "
	cfg.Console.UseTUI = false

	cfg.Service.ListenAddr = ":8765"
	cfg.Service.EnableCORS = true
	cfg.Service.MaxBatchSize = 256
	cfg.Service.HistoryBufSize = 100

	return cfg
}

// FormatValue renders d using this config's display preferences: decimal
// point character, optional currency symbol, and the scientific-notation
// thresholds (e' <= ScientificMin or e' > ScientificMax switches to
// scientific), per spec §4.10's "the decimal-point character is a
// parameter". ScientificMin/Max are fixed bounds, not spec §4.10's
// digit-count-relative `e' > j` default; see DESIGN.md.
func (c *Config) FormatValue(d decimal.Decimal) string {
	return decimal.ToTextOptsConfigured(d, c.Display.DecimalPoint, c.Display.CurrencySign, c.Display.ScientificMin, c.Display.ScientificMax)
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "deci")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "deci")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
