package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("BACKEND_PREVIEW_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:1337/api" {
		t.Errorf("BackendURL = %q, want default", cfg.BackendURL)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false, want true")
	}
}

func TestLoad_ProductionRequiresDBPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error for default production password")
	}
}

func TestLoad_ProductionRejectsPreviewMode(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("BACKEND_PREVIEW_MODE", "true")
	t.Setenv("BACKEND_PREVIEW_TOKEN", "tok")

	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error for preview mode in production")
	}
}

func TestLoad_PreviewModeRequiresToken(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("BACKEND_PREVIEW_MODE", "true")
	t.Setenv("BACKEND_PREVIEW_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error when preview token missing")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
