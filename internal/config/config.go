package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when a setting is present but unusable.
var ErrInvalidConfig = errors.New("invalid config")

// Authentication modes.
const (
	AuthCredentials = "credentials"
	AuthTrusted     = "trusted"
)

// Config is the application configuration.
type Config struct {
	LogLevel string
	Database Database
}

// Database holds everything needed to reach the store.
type Database struct {
	Host     string
	Port     int
	Name     string
	AuthMode string // AuthCredentials or AuthTrusted
	User     string
	Password string

	Encrypt                bool // TLS on the wire
	TrustServerCertificate bool // accept the server certificate without verification

	ConnectTimeout  time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads the configuration from the environment. When path names an existing
// env file its values are loaded first; variables already set in the process win.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var errs []error
	cfg := &Config{
		LogLevel: getEnv("FAKEBOOK_LOG_LEVEL", "info"),
		Database: Database{
			Host:                   getEnv("FAKEBOOK_DB_HOST", "localhost"),
			Port:                   getEnvAsInt("FAKEBOOK_DB_PORT", 5432, &errs),
			Name:                   getEnv("FAKEBOOK_DB_NAME", ""),
			AuthMode:               strings.ToLower(getEnv("FAKEBOOK_DB_AUTH_MODE", AuthCredentials)),
			User:                   getEnv("FAKEBOOK_DB_USER", ""),
			Password:               getEnv("FAKEBOOK_DB_PASSWORD", ""),
			Encrypt:                getEnvAsBool("FAKEBOOK_DB_ENCRYPT", true, &errs),
			TrustServerCertificate: getEnvAsBool("FAKEBOOK_DB_TRUST_SERVER_CERTIFICATE", false, &errs),
			ConnectTimeout:         time.Duration(getEnvAsInt("FAKEBOOK_DB_CONNECT_TIMEOUT_SECONDS", 10, &errs)) * time.Second,
			MaxOpenConns:           getEnvAsInt("FAKEBOOK_DB_MAX_OPEN_CONNS", 16, &errs),
			MaxIdleConns:           getEnvAsInt("FAKEBOOK_DB_MAX_IDLE_CONNS", 8, &errs),
			ConnMaxLifetime:        time.Duration(getEnvAsInt("FAKEBOOK_DB_CONN_MAX_LIFETIME_SECONDS", 300, &errs)) * time.Second,
		},
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings can produce a usable DSN.
func (d Database) Validate() error {
	switch {
	case d.Host == "":
		return fmt.Errorf("%w: database host is required", ErrInvalidConfig)
	case d.Name == "":
		return fmt.Errorf("%w: database name is required", ErrInvalidConfig)
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("%w: database port %d out of range", ErrInvalidConfig, d.Port)
	case d.MaxOpenConns < 0:
		return fmt.Errorf("%w: max open conns %d is negative", ErrInvalidConfig, d.MaxOpenConns)
	case d.MaxIdleConns < 0:
		return fmt.Errorf("%w: max idle conns %d is negative", ErrInvalidConfig, d.MaxIdleConns)
	case d.ConnectTimeout < 0:
		return fmt.Errorf("%w: connect timeout %s is negative", ErrInvalidConfig, d.ConnectTimeout)
	case d.ConnMaxLifetime < 0:
		return fmt.Errorf("%w: conn max lifetime %s is negative", ErrInvalidConfig, d.ConnMaxLifetime)
	}

	switch d.AuthMode {
	case AuthCredentials:
		if d.User == "" {
			return fmt.Errorf("%w: credentials auth requires a user", ErrInvalidConfig)
		}
	case AuthTrusted:
	default:
		return fmt.Errorf("%w: unknown auth mode %q", ErrInvalidConfig, d.AuthMode)
	}
	return nil
}

// SSLMode maps the encrypt/trust pair onto a libpq sslmode.
func (d Database) SSLMode() string {
	switch {
	case !d.Encrypt:
		return "disable"
	case d.TrustServerCertificate:
		return "require"
	default:
		return "verify-full"
	}
}

// DSN renders a postgres:// connection URL. Trusted auth leaves the user and
// password out so the driver falls back to PGUSER, ~/.pgpass or the OS user.
func (d Database) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.AuthMode != AuthTrusted {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}

	q := url.Values{}
	q.Set("sslmode", d.SSLMode())
	if d.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(d.ConnectTimeout/time.Second)))
	}
	q.Set("application_name", "fakebook")
	u.RawQuery = q.Encode()
	return u.String()
}

// Redacted is DSN with the password masked, for logs.
func (d Database) Redacted() string {
	u, err := url.Parse(d.DSN())
	if err != nil {
		return ""
	}
	return u.Redacted()
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, raw))
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool, errs *[]error) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, raw))
		return defaultValue
	}
	return v
}
