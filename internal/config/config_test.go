package config

import "testing"

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("MASTER_SHEET_ID", "master-id")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when TELEGRAM_BOT_TOKEN is missing")
	}
}

func TestLoad_MissingMasterSheet(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MASTER_SHEET_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when MASTER_SHEET_ID is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MASTER_SHEET_ID", "master-id")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GeminiModel != DefaultGeminiModel {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, DefaultGeminiModel)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_GeminiOptional(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MASTER_SHEET_ID", "master-id")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
}
