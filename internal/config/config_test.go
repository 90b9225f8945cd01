package config

import (
	"os"
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	_ = os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}

	if err := os.Setenv(key, "8080"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "9000"); got != "8080" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8080")
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	_ = os.Setenv("APP_PORT", "1234")
	_ = os.Setenv("NEWS_API_BASE", "http://localhost:8081")
	_ = os.Setenv("ADMIN_AUTH_CODE", "codeword")
	defer func() {
		_ = os.Unsetenv("APP_PORT")
		_ = os.Unsetenv("NEWS_API_BASE")
		_ = os.Unsetenv("ADMIN_AUTH_CODE")
	}()

	cfg := Load()
	if cfg.AppPort != "1234" {
		t.Fatalf("AppPort = %q, want %q", cfg.AppPort, "1234")
	}
	if cfg.NewsAPIBase != "http://localhost:8081" {
		t.Fatalf("NewsAPIBase = %q", cfg.NewsAPIBase)
	}
	if cfg.AdminAuthCode != "codeword" {
		t.Fatalf("AdminAuthCode = %q", cfg.AdminAuthCode)
	}
	if cfg.CronSpec == "" {
		t.Fatal("CronSpec default missing")
	}
}
