package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GIFTLOG_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DBPath != "./data/giftlog.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if !cfg.UsesDevSecret() {
		t.Error("expected dev secret by default")
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "giftlog.yaml")
	yaml := "addr: \":9000\"\ndb_path: /tmp/from-file.db\nlog_format: json\nsession_ttl: 2h\n"
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GIFTLOG_SECRET_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Setenv("GIFTLOG_ADDR", ":7000")
	t.Setenv("GIFTLOG_COOKIE_SECURE", "true")
	// godotenv never overrides variables that are already set; make sure
	// this one starts unset so the .env value is visible.
	os.Unsetenv("GIFTLOG_SECRET_KEY")
	t.Cleanup(func() { os.Unsetenv("GIFTLOG_SECRET_KEY") })

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("env should override file: Addr = %q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/from-file.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LogFormat != "json" || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure not read from env")
	}
	if cfg.SecretKey != "from-dotenv" {
		t.Errorf("SecretKey = %q, want value from .env", cfg.SecretKey)
	}
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("Load with missing file failed: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Addr: ":1", DBPath: "x.db", SecretKey: "k", SessionTTL: time.Hour, LogFormat: "text"}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty secret", func(c *Config) { c.SecretKey = "" }},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
