package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Data source
	DataSource string
	CSVPath    string

	// Snapshot database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleSheetRange         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	RefreshInterval time.Duration
	SnapshotMaxAge  time.Duration

	// Auth
	AuthUsername     string
	AuthPasswordHash string
	SessionTTL       time.Duration

	// Dashboard
	CacheTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataSource: getEnv("DATA_SOURCE", "csv"),
		CSVPath:    getEnv("CSV_PATH", "./expenses.csv"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendview.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "spending-r"),
		GoogleSheetRange:         getEnv("GOOGLE_SHEET_RANGE", "A10:O"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendview"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "refresh_snapshot"),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 6*time.Hour),
		SnapshotMaxAge:  getEnvDuration("SNAPSHOT_MAX_AGE", 24*time.Hour),

		AuthUsername:     getEnv("AUTH_USERNAME", "admin"),
		AuthPasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 12*time.Hour),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// AuthEnabled reports whether the dashboard requires a login. Auth is
// opt-in: with no password hash configured the dashboard is open.
func (c *Config) AuthEnabled() bool {
	return c.AuthPasswordHash != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data source
	validSources := []string{"csv", "sheets", "snapshot"}
	isValidSource := false
	for _, src := range validSources {
		if c.DataSource == src {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, validSources))
	}

	if c.DataSource == "csv" {
		if c.CSVPath == "" {
			errors = append(errors, "CSV path cannot be empty when using csv data source")
		} else if _, err := os.Stat(c.CSVPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("CSV file does not exist: %s", c.CSVPath))
		}
	}

	if c.DataSource == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets data source")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets data source")
		}
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets data source")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate snapshot database path if the snapshot is in play
	if c.DataSource == "snapshot" || c.AMQPURL != "" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using the snapshot")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate worker configuration
	if c.RefreshInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 minute", c.RefreshInterval))
	} else if c.RefreshInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 7 days", c.RefreshInterval))
	}
	if c.SnapshotMaxAge < c.RefreshInterval {
		errors = append(errors, fmt.Sprintf("invalid snapshot max age %v: must be at least the refresh interval %v", c.SnapshotMaxAge, c.RefreshInterval))
	}

	// Validate auth configuration
	if c.AuthPasswordHash != "" {
		if !strings.HasPrefix(c.AuthPasswordHash, "$2a$") && !strings.HasPrefix(c.AuthPasswordHash, "$2b$") && !strings.HasPrefix(c.AuthPasswordHash, "$2y$") {
			errors = append(errors, "invalid AUTH_PASSWORD_HASH: must be a bcrypt hash")
		}
		if c.AuthUsername == "" {
			errors = append(errors, "auth username cannot be empty when a password hash is configured")
		}
		if c.SessionTTL < time.Minute {
			errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
		}
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
