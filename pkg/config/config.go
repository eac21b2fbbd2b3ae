package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Service  ServiceConfig  `yaml:"service"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Payment  PaymentConfig  `yaml:"payment"`
	Upstream UpstreamConfig `yaml:"upstream"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds path and level for a single log sink.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds settings for the payment ledger database.
type DBConfig struct {
	Path string `yaml:"path"`
	// RetainTransactions controls how long ledger rows are kept before
	// maintenance prunes them. Zero disables pruning.
	RetainTransactions Duration `yaml:"retain_transactions"`
}

// ServiceConfig describes the service itself, as published in the manifest
// and the overview entrypoint.
type ServiceConfig struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	BaseURL         string `yaml:"base_url"`
	Contact         string `yaml:"contact"`
	DefaultLanguage string `yaml:"default_language"`
}

// PricingConfig holds the fixed integer fee per priced entrypoint.
type PricingConfig struct {
	Search  int64 `yaml:"search"`
	Summary int64 `yaml:"summary"`
	Details int64 `yaml:"details"`
	Related int64 `yaml:"related"`
	Batch   int64 `yaml:"batch"`
}

// PaymentConfig declares the payment support advertised in the manifest.
// The metering framework that settles charges is an external collaborator;
// wikigate only records transactions against this receiver.
type PaymentConfig struct {
	Network string `yaml:"network"`
	Address string `yaml:"address"`
	Unit    string `yaml:"unit"`
}

// UpstreamConfig holds settings for outbound Wikipedia/Wikidata requests.
type UpstreamConfig struct {
	UserAgent string `yaml:"user_agent"` // Optional override for the identifying header
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "127.0.0.1:8422",
		},
		Log: LogConfig{
			Server:   LogSettings{Path: "logs/wikigate.log", Level: "INFO"},
			Requests: LogSettings{Path: "logs/requests.log", Level: "INFO"},
		},
		DB: DBConfig{
			Path:               "data/ledger.db",
			RetainTransactions: Duration(0),
		},
		Service: ServiceConfig{
			Name:            "wikigate",
			Description:     "Paid gateway to Wikipedia and Wikidata lookups",
			BaseURL:         "http://127.0.0.1:8422",
			Contact:         "",
			DefaultLanguage: "en",
		},
		Pricing: PricingConfig{
			Search:  5,
			Summary: 5,
			Details: 10,
			Related: 15,
			Batch:   25,
		},
		Payment: PaymentConfig{
			Network: "preprod",
			Address: "",
			Unit:    "lovelace",
		},
		Upstream: UpstreamConfig{
			UserAgent: "",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		applyEnv(cfg)
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv fills empty secrets/contact fields from the environment.
// Values already present in the file win.
func applyEnv(cfg *Config) {
	if cfg.Payment.Address == "" {
		if addr := os.Getenv("WIKIGATE_PAYMENT_ADDRESS"); addr != "" {
			cfg.Payment.Address = addr
		}
	}
	if cfg.Service.Contact == "" {
		if contact := os.Getenv("WIKIGATE_CONTACT"); contact != "" {
			cfg.Service.Contact = contact
		}
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# wikigate Configuration
# ---------------------
# Durations support: ns, us, ms, s, m, h, d (day), w (week)
# Pricing fees are integer amounts in payment.unit per call.

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}
