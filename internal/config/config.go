package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// App identity reported by the health endpoint.
const (
	AppName    = "Suma"
	AppVersion = "0.1.0"
)

type Config struct {
	// HTTP server
	Port        string
	CORSOrigins []string
	LogLevel    string

	// Backend selection
	DataBackend string

	// SQLite backend
	SQLiteDBPath string

	// Document backend
	DocumentDataDir string

	// AMQP (optional movement event stream)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Authentication. AuthMode selects the verifier: "firebase" needs
	// FirebaseProjectID, "google" needs GoogleAudience, "hmac" needs
	// AuthHMACSecret. Empty mode leaves auth unconfigured (fails closed).
	AuthMode          string
	FirebaseProjectID string
	GoogleAudience    string
	AuthHMACSecret    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DataBackend: getEnv("DATA_BACKEND", "document"),

		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/suma.db"),
		DocumentDataDir: getEnv("DOCUMENT_DATA_DIR", "./data/documents"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "suma"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "movement_events"),

		AuthMode:          getEnv("AUTH_MODE", ""),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		GoogleAudience:    getEnv("GOOGLE_AUDIENCE", ""),
		AuthHMACSecret:    getEnv("AUTH_HMAC_SECRET", ""),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "document":
		// Data directory is created lazily on the first flush.
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite document]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.AuthMode {
	case "":
		// Unconfigured auth is allowed; protected endpoints answer 503.
	case "firebase":
		if c.FirebaseProjectID == "" {
			problems = append(problems, "FIREBASE_PROJECT_ID is required when AUTH_MODE is firebase")
		}
	case "google":
		if c.GoogleAudience == "" {
			problems = append(problems, "GOOGLE_AUDIENCE is required when AUTH_MODE is google")
		}
	case "hmac":
		if c.AuthHMACSecret == "" {
			problems = append(problems, "AUTH_HMAC_SECRET is required when AUTH_MODE is hmac")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid auth mode '%s': must be one of [firebase google hmac]", c.AuthMode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// AuthConfigured reports whether an identity provider is set up. The health
// endpoint exposes this so operators can tell a 503 from a misdeploy.
func (c *Config) AuthConfigured() bool {
	return c.AuthMode != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
