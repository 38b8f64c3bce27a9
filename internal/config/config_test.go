package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
esi:
  base_url: https://esi.example.test/latest
  page_concurrency: 2
static:
  driver: postgres
  postgres:
    host: localhost
    port: 5432
    name: sde
    user: eve
    password: eve
client_data:
  root_directory: /games/EVE
poller:
  regions: [10000002, 10000043]
  interval: 10m
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ESI.BaseURL != "https://esi.example.test/latest" {
		t.Errorf("ESI.BaseURL = %q", cfg.ESI.BaseURL)
	}
	if cfg.ESI.PageConcurrency != 2 {
		t.Errorf("ESI.PageConcurrency = %d, want 2", cfg.ESI.PageConcurrency)
	}
	if cfg.Static.Postgres.Host != "localhost" {
		t.Errorf("Static.Postgres.Host = %q, want %q", cfg.Static.Postgres.Host, "localhost")
	}
	if len(cfg.Poller.Regions) != 2 || cfg.Poller.Regions[1] != 10000043 {
		t.Errorf("Poller.Regions = %v", cfg.Poller.Regions)
	}
	if cfg.Poller.Interval != 10*time.Minute {
		t.Errorf("Poller.Interval = %v, want 10m", cfg.Poller.Interval)
	}
	if got := cfg.ClientData.MarketLogDir(); got != filepath.Join("/games/EVE", "logs", "Marketlogs") {
		t.Errorf("MarketLogDir() = %q", got)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SSO_SECRET", "secret123")

	yaml := `
sso:
  client_id: abc
  client_secret: ${TEST_SSO_SECRET}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SSO.ClientSecret != "secret123" {
		t.Errorf("SSO.ClientSecret = %q, want %q", cfg.SSO.ClientSecret, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "server:\n  port: 9000\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.ESI.BaseURL != DefaultESIURL {
		t.Errorf("ESI.BaseURL = %q, want default %q", cfg.ESI.BaseURL, DefaultESIURL)
	}
	if cfg.ESI.Timeout != DefaultESITimeout {
		t.Errorf("ESI.Timeout = %v, want default %v", cfg.ESI.Timeout, DefaultESITimeout)
	}
	if cfg.Static.Driver != DriverSQLite {
		t.Errorf("Static.Driver = %q, want default %q", cfg.Static.Driver, DriverSQLite)
	}
	if filepath.Base(cfg.Static.SQLite.Path) != DefaultSQLiteFile {
		t.Errorf("Static.SQLite.Path = %q, want file %q", cfg.Static.SQLite.Path, DefaultSQLiteFile)
	}
	if cfg.Static.Postgres.Port != DefaultDBPort {
		t.Errorf("Static.Postgres.Port = %d, want default %d", cfg.Static.Postgres.Port, DefaultDBPort)
	}
	if filepath.Base(cfg.Logging.File) != DefaultLogFile {
		t.Errorf("Logging.File = %q, want file %q", cfg.Logging.File, DefaultLogFile)
	}
	if cfg.Poller.Concurrency != DefaultPollConcurrency {
		t.Errorf("Poller.Concurrency = %d, want default %d", cfg.Poller.Concurrency, DefaultPollConcurrency)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name: "postgres requires host",
			modify: func(c *Config) {
				c.Static.Driver = DriverPostgres
				c.Static.Postgres.Name = "sde"
				c.Static.Postgres.User = "eve"
			},
			wantErr: "static.postgres.host is required",
		},
		{
			name: "postgres min over max",
			modify: func(c *Config) {
				c.Static.Driver = DriverPostgres
				c.Static.Postgres = DBConfig{Host: "h", Name: "n", User: "u", MaxConns: 2, MinConns: 3}
			},
			wantErr: "static.postgres.min_conns (3) cannot exceed max_conns (2)",
		},
		{
			name:    "unknown driver",
			modify:  func(c *Config) { c.Static.Driver = "mysql" },
			wantErr: `static.driver must be "postgres" or "sqlite", got "mysql"`,
		},
		{
			name:    "refresh token without client",
			modify:  func(c *Config) { c.SSO.RefreshToken = "rt" },
			wantErr: "sso.client_id is required when sso.refresh_token is set",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: `logging.level must be one of debug, info, warn, error, got "verbose"`,
		},
		{
			name:    "bad region",
			modify:  func(c *Config) { c.Poller.Regions = []int64{10000002, -1} },
			wantErr: "poller.regions: invalid region id -1",
		},
		{
			name:    "zero page concurrency",
			modify:  func(c *Config) { c.ESI.PageConcurrency = -1 },
			wantErr: "esi.page_concurrency must be >= 1",
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAndValidate_Invalid(t *testing.T) {
	path := writeTempFile(t, "static:\n  driver: oracle\n")

	_, err := LoadAndValidate(path)
	if err == nil || !strings.HasPrefix(err.Error(), "validate config: ") {
		t.Errorf("LoadAndValidate() error = %v, want validate config error", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, DefaultServerPort)
	}

	bad := writeTempFile(t, "server: [")
	if _, err := LoadOrDefault(bad); err == nil {
		t.Error("LoadOrDefault() should fail on malformed yaml")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "EVETELE_CONFIG_TEST_DOTENV"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(filepath.Join(dir, "absent.env"), envPath); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want %q", key, got, "from-file")
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("HOME", root)

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	for _, dir := range []string{ConfigDir(), DataDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
