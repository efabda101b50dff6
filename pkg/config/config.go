// Package config provides configuration management for the Cardmarket ledger
// tools. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Ledger   LedgerConfig
	Currency string
	Debug    bool
}

// LedgerConfig represents journal-output configuration.
type LedgerConfig struct {
	// Root is the directory journal files are written under.
	Root string
	// DBPath is the SQLite import-history database file.
	DBPath string
	// MappingFile is an optional YAML file with account-mapping overrides.
	MappingFile string
}

// Load loads configuration from environment variables. It automatically
// loads a .env file from the current directory if available; a custom path
// may be given instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	return &Config{
		Ledger: LedgerConfig{
			Root:        getEnvOrDefault("LEDGER_ROOT", "./ledger"),
			DBPath:      os.Getenv("LEDGER_DB_PATH"),
			MappingFile: os.Getenv("LEDGER_ACCOUNT_MAPPING"),
		},
		Currency: getEnvOrDefault("LEDGER_CURRENCY", "EUR"),
		Debug:    os.Getenv("DEBUG") == "true",
	}, nil
}

// Validate checks that the named configuration keys are set. Keys follow a
// dot notation: "ledger.root", "ledger.dbPath", "ledger.mappingFile",
// "currency".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, key := range required {
		var value string
		switch key {
		case "ledger.root":
			value = c.Ledger.Root
		case "ledger.dbPath":
			value = c.Ledger.DBPath
		case "ledger.mappingFile":
			value = c.Ledger.MappingFile
		case "currency":
			value = c.Currency
		}
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default
// value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
