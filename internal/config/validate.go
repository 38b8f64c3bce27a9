package config

import (
	"errors"
	"fmt"
	"strings"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.ESI.BaseURL == "" {
		return errors.New("esi.base_url is required")
	}
	if c.ESI.MaxRetries < 0 {
		return errors.New("esi.max_retries must be >= 0")
	}
	if c.ESI.PageConcurrency < 1 {
		return errors.New("esi.page_concurrency must be >= 1")
	}

	if c.SSO.Enabled() {
		if c.SSO.ClientID == "" {
			return errors.New("sso.client_id is required when sso.refresh_token is set")
		}
		if c.SSO.ClientSecret == "" {
			return errors.New("sso.client_secret is required when sso.refresh_token is set")
		}
	}

	switch c.Static.Driver {
	case DriverPostgres:
		if err := c.Static.Postgres.validate("static.postgres"); err != nil {
			return err
		}
	case DriverSQLite:
		if c.Static.SQLite.Path == "" {
			return errors.New("static.sqlite.path is required")
		}
	default:
		return fmt.Errorf("static.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Static.Driver)
	}

	if !validLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %s, got %q", strings.Join(logLevels, ", "), c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 1 {
		return errors.New("logging.max_size_mb must be >= 1")
	}

	for _, id := range c.Poller.Regions {
		if id <= 0 {
			return fmt.Errorf("poller.regions: invalid region id %d", id)
		}
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}
	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func validLevel(level string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
