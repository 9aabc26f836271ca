package neotpch

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ErrMissingConfig is returned by LoadConfig when a required variable is empty.
var ErrMissingConfig = errors.New("missing required configuration")

// Environment variable names read by LoadConfig.
const (
	EnvURI         = "NEO4J_URI"
	EnvUser        = "NEO4J_USER"
	EnvPassword    = "NEO4J_PASSWORD"
	EnvDatabase    = "NEO4J_DATABASE"
	EnvReset       = "TPCH_RESET"
	EnvQueriesFile = "TPCH_QUERIES_FILE"
	EnvFixtureFile = "TPCH_FIXTURE_FILE"
	EnvLogLevel    = "TPCH_LOG_LEVEL"
)

// DefaultDatabase is used when NEO4J_DATABASE is unset.
const DefaultDatabase = "neo4j"

// Config holds everything the harness needs to start.
type Config struct {
	URI      string
	User     string
	Password string
	Database string

	// Reset enables the destructive reset, provisioning and seeding on start.
	Reset bool

	QueriesFile string
	FixtureFile string
	LogLevel    logrus.Level
}

// LoadConfig reads a .env file from the working directory when one exists
// and then builds a Config from the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is not an error; the variables may come from the shell.
	_ = godotenv.Load()
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config using getenv for lookups.
func ConfigFromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		URI:         getenv(EnvURI),
		User:        getenv(EnvUser),
		Password:    getenv(EnvPassword),
		Database:    getenv(EnvDatabase),
		QueriesFile: getenv(EnvQueriesFile),
		FixtureFile: getenv(EnvFixtureFile),
		LogLevel:    logrus.InfoLevel,
	}

	var missing []string
	if cfg.URI == "" {
		missing = append(missing, EnvURI)
	}
	if cfg.User == "" {
		missing = append(missing, EnvUser)
	}
	if cfg.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: set %s in the environment or .env", ErrMissingConfig, strings.Join(missing, ", "))
	}

	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	if raw := getenv(EnvReset); raw != "" {
		reset, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvReset, raw, err)
		}
		cfg.Reset = reset
	}

	if raw := getenv(EnvLogLevel); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvLogLevel, raw, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}
