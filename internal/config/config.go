package config

import "time"

// Config is the root configuration for evetele.
type Config struct {
	ESI        ESIConfig        `yaml:"esi"`
	SSO        SSOConfig        `yaml:"sso"`
	Static     StaticConfig     `yaml:"static"`
	ClientData ClientDataConfig `yaml:"client_data"`
	Logging    LoggingConfig    `yaml:"logging"`
	Poller     PollerConfig     `yaml:"poller"`
	Server     ServerConfig     `yaml:"server"`
}

// ESIConfig holds ESI API settings.
type ESIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	PageConcurrency int           `yaml:"page_concurrency"`
}

// SSOConfig holds the EVE SSO application credentials and the
// character's refresh token.
type SSOConfig struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// Enabled reports whether authenticated endpoints can be used.
func (c SSOConfig) Enabled() bool {
	return c.RefreshToken != ""
}

// Static data drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StaticConfig selects the SDE store.
type StaticConfig struct {
	Driver   string       `yaml:"driver"`
	Postgres DBConfig     `yaml:"postgres"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// ClientDataConfig locates the game client's user data.
type ClientDataConfig struct {
	RootDirectory string `yaml:"root_directory"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// PollerConfig holds market refresher settings.
type PollerConfig struct {
	Regions     []int64       `yaml:"regions"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ServerConfig holds the health/debug HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}
