package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != "test-version" {
		t.Errorf("expected version 'test-version', got %q", cfg.Version)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("expected default db host localhost, got %q", cfg.Database.Host)
	}
	if cfg.Probe.TimeoutSeconds != 5 {
		t.Errorf("expected default probe timeout 5s, got %d", cfg.Probe.TimeoutSeconds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "s3cret")
	t.Setenv("PROBE_TIMEOUT_SECONDS", "3")

	cfg, err := Load("v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected db host db.internal, got %q", cfg.Database.Host)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("expected password from env, got %q", cfg.Database.Password)
	}
	if cfg.Probe.Timeout() != 3*time.Second {
		t.Errorf("expected 3s probe timeout, got %s", cfg.Probe.Timeout())
	}
}

func TestLoad_RejectsNonPositiveProbeTimeout(t *testing.T) {
	t.Setenv("PROBE_TIMEOUT_SECONDS", "0")

	if _, err := Load("v1"); err == nil {
		t.Fatal("expected error for zero probe timeout")
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "opshub",
		Password: "pw",
		Database: "opshub_meta",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=opshub password=pw dbname=opshub_meta sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReportConfig_IsAvailable(t *testing.T) {
	cfg := ReportConfig{}
	if cfg.IsAvailable() {
		t.Error("expected unavailable without an API key")
	}
	cfg.APIKey = "sk-test"
	if !cfg.IsAvailable() {
		t.Error("expected available with an API key")
	}
}
