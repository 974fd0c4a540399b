package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("server url = %q", cfg.ServerURL)
	}
	if cfg.ServerToken != "" {
		t.Errorf("server token = %q, want empty", cfg.ServerToken)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.LogConsole {
		t.Error("console logging on by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONTROLCENTRE_SERVER_URL", "https://tracker.example.com")
	t.Setenv("CONTROLCENTRE_SERVER_TOKEN", "hunter2")
	t.Setenv("CONTROLCENTRE_LOG_LEVEL", "DEBUG")
	t.Setenv("CONTROLCENTRE_LOG_CONSOLE", "true")

	cfg := DefaultConfig()
	if cfg.ServerURL != "https://tracker.example.com" {
		t.Errorf("server url = %q", cfg.ServerURL)
	}
	if cfg.ServerToken != "hunter2" {
		t.Errorf("server token = %q", cfg.ServerToken)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if !cfg.LogConsole {
		t.Error("console override ignored")
	}
}
