package config

import (
	"os"
	"testing"
)

// clearEnv unsets key for the duration of the test. t.Setenv registers the
// restore; the explicit Unsetenv removes the empty value it just set.
func clearEnv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"GEMINI_API_KEY", "CHAT_MODEL", "HTTP_PORT", "REGISTRY_PATH",
		"INDEX_ROOT", "LOG_LEVEL", "LOG_FILE",
	} {
		clearEnv(t, key)
	}

	cfg := Load()

	if cfg.GeminiAPIKey != "" {
		t.Errorf("expected empty default api key, got %s", cfg.GeminiAPIKey)
	}
	if cfg.ChatModel != "gemini-2.0-flash" {
		t.Errorf("expected default chat model, got %s", cfg.ChatModel)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.RegistryPath != "chat_history.json" {
		t.Errorf("expected default registry path, got %s", cfg.RegistryPath)
	}
	if cfg.IndexRoot != "index_data" {
		t.Errorf("expected default index root, got %s", cfg.IndexRoot)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Errorf("expected empty default log file, got %s", cfg.LogFile)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CHAT_MODEL", "gemini-2.5-pro")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("REGISTRY_PATH", "/tmp/sessions.json")
	t.Setenv("INDEX_ROOT", "/tmp/indexes")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/finsight.log")

	cfg := Load()

	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("expected custom api key, got %s", cfg.GeminiAPIKey)
	}
	if cfg.ChatModel != "gemini-2.5-pro" {
		t.Errorf("expected custom chat model, got %s", cfg.ChatModel)
	}
	if cfg.HTTPPort != "9000" {
		t.Errorf("expected custom port, got %s", cfg.HTTPPort)
	}
	if cfg.RegistryPath != "/tmp/sessions.json" {
		t.Errorf("expected custom registry path, got %s", cfg.RegistryPath)
	}
	if cfg.IndexRoot != "/tmp/indexes" {
		t.Errorf("expected custom index root, got %s", cfg.IndexRoot)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/finsight.log" {
		t.Errorf("expected custom log file, got %s", cfg.LogFile)
	}
}
