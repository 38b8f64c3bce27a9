package config

import (
	"path/filepath"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultESIURL            = "https://esi.evetech.net/latest"
	DefaultESITimeout        = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultPageConcurrency   = 8
	DefaultSSOURL            = "https://login.eveonline.com"
	DefaultDriver            = DriverSQLite
	DefaultSQLiteFile        = "sde.sqlite"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 4
	DefaultMinConns          = 1
	DefaultLogLevel          = "info"
	DefaultLogFile           = "main.log"
	DefaultLogMaxSizeMB      = 10
	DefaultLogMaxBackups     = 5
	DefaultLogMaxAgeDays     = 30
	DefaultPollInterval      = 5 * time.Minute
	DefaultPollConcurrency   = 4
	DefaultPollTimeout       = 2 * time.Minute
	DefaultServerPort        = 8080
	DefaultClientDataDirName = "EVE"
	DefaultMarketLogsSubpath = "logs/Marketlogs"
)

func (c *Config) applyDefaults() {
	// ESI defaults
	if c.ESI.BaseURL == "" {
		c.ESI.BaseURL = DefaultESIURL
	}
	if c.ESI.Timeout == 0 {
		c.ESI.Timeout = DefaultESITimeout
	}
	if c.ESI.MaxRetries == 0 {
		c.ESI.MaxRetries = DefaultMaxRetries
	}
	if c.ESI.PageConcurrency == 0 {
		c.ESI.PageConcurrency = DefaultPageConcurrency
	}

	if c.SSO.BaseURL == "" {
		c.SSO.BaseURL = DefaultSSOURL
	}

	// Static data defaults
	if c.Static.Driver == "" {
		c.Static.Driver = DefaultDriver
	}
	if c.Static.SQLite.Path == "" {
		c.Static.SQLite.Path = filepath.Join(DataDir(), DefaultSQLiteFile)
	}
	applyDBDefaults(&c.Static.Postgres)

	if c.ClientData.RootDirectory == "" {
		c.ClientData.RootDirectory = defaultClientDataDir()
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(DataDir(), DefaultLogFile)
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

// MarketLogDir is where the client writes exported market logs.
func (c ClientDataConfig) MarketLogDir() string {
	return filepath.Join(c.RootDirectory, filepath.FromSlash(DefaultMarketLogsSubpath))
}
