package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDBAdapter        = "DB_ADAPTER"
	EnvPostgresHost     = "POSTGRES_HOST"
	EnvPostgresPort     = "POSTGRES_PORT"
	EnvPostgresUser     = "POSTGRES_USER"
	EnvPostgresPassword = "POSTGRES_PASSWORD"
	EnvPostgresDatabase = "POSTGRES_DB"
	EnvPostgresSSLMode  = "POSTGRES_SSLMODE"
	EnvPostgresMaxConns = "POSTGRES_MAX_CONNS"
	EnvSQLitePath       = "SQLITE_PATH"
	EnvJournalTable     = "JOURNAL_TABLE"
)

// Supported values of DB_ADAPTER.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

var (
	// ErrLoadingEnvFile is returned when an explicitly named .env file cannot be loaded.
	ErrLoadingEnvFile = errors.New("could not load env file")

	// ErrUnknownAdapter is returned for a DB_ADAPTER value other than pgx, sql or sqlx.
	ErrUnknownAdapter = errors.New("unknown database adapter")

	// ErrInvalidEnvValue is returned when a numeric variable does not parse.
	ErrInvalidEnvValue = errors.New("invalid environment value")
)

// JournalConfig holds everything needed to open an event journal.
type JournalConfig struct {
	Adapter    string
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	MaxConns   int
	SQLitePath string
	TableName  string
}

// LoadEnv loads the given .env files into the process environment without overriding variables
// that are already set. Without arguments it loads ./.env if that file exists.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Join(ErrLoadingEnvFile, err)
		}

		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}

	return nil
}

// JournalConfigFromEnv reads the journal settings, falling back to the local development defaults.
func JournalConfigFromEnv() (JournalConfig, error) {
	cfg := JournalConfig{
		Adapter:    getenv(EnvDBAdapter, AdapterPGX),
		Host:       getenv(EnvPostgresHost, "localhost"),
		User:       getenv(EnvPostgresUser, "casino"),
		Password:   getenv(EnvPostgresPassword, "casino"),
		Database:   getenv(EnvPostgresDatabase, "casino"),
		SSLMode:    getenv(EnvPostgresSSLMode, "disable"),
		SQLitePath: getenv(EnvSQLitePath, "casino-journal.db"),
		TableName:  getenv(EnvJournalTable, "events"),
	}

	var err error
	if cfg.Port, err = getenvInt(EnvPostgresPort, 5432); err != nil {
		return cfg, err
	}

	if cfg.MaxConns, err = getenvInt(EnvPostgresMaxConns, 16); err != nil {
		return cfg, err
	}

	switch cfg.Adapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX:
	default:
		return cfg, errors.Join(ErrUnknownAdapter, fmt.Errorf("%s=%q", EnvDBAdapter, cfg.Adapter))
	}

	return cfg, nil
}

// PostgresDSN renders the connection URL understood by pgx and lib/pq alike.
func (c JournalConfig) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}

	return dsn.String()
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errors.Join(ErrInvalidEnvValue, fmt.Errorf("%s=%q", key, v))
	}

	return n, nil
}
