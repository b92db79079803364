package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRead_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
jwt:
  secret: test-secret
admin:
  email: Admin@Example.com
`)
	t.Setenv("BUDGET_BUDGET_SUMMARY_WEEKS", "6")

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "data/budget.db" {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Budget.SummaryWeeks != 6 {
		t.Errorf("summary_weeks = %d, want 6 from env", cfg.Budget.SummaryWeeks)
	}
	if cfg.Budget.ProjectionMaxWeeks != 5200 {
		t.Errorf("projection_max_weeks = %d", cfg.Budget.ProjectionMaxWeeks)
	}
	if !cfg.IsAdmin("admin@example.com") || cfg.IsAdmin("someone@example.com") {
		t.Error("IsAdmin should compare emails case-insensitively")
	}
}

func TestRead_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing secret":   "server:\n  port: 1\n",
		"unknown driver":   "jwt:\n  secret: x\ndatabase:\n  driver: oracle\n",
		"postgres w/o dsn": "jwt:\n  secret: x\ndatabase:\n  driver: postgres\n",
	}
	for name, body := range cases {
		if _, err := Read(writeConfig(t, body)); err == nil {
			t.Errorf("%s: Read() error = nil, want error", name)
		}
	}

	if _, err := Read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file: Read() error = nil, want error")
	}
}

func TestIsAdmin_NoAdminConfigured(t *testing.T) {
	c := &Config{}
	if c.IsAdmin("") || c.IsAdmin("a@b.c") {
		t.Error("no admin configured must deny everyone")
	}
}

func TestLoad_Once(t *testing.T) {
	first := writeConfig(t, "jwt:\n  secret: first\n")
	second := writeConfig(t, "jwt:\n  secret: second\n")

	cfg, err := Load(first)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	again, err := Load(second)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again != cfg || Get() != cfg || cfg.JWT.Secret != "first" {
		t.Errorf("Load should keep the first configuration, got %q", Get().JWT.Secret)
	}
}
