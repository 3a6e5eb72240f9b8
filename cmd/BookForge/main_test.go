package main

import (
	"testing"
)

// isolateEnv pins every variable loadEnvironmentConfig reads and moves the
// working directory away from any developer .env file.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"BOT_TOKEN", "WEBHOOK_URL", "BOOKFORGE_GUILD_ID", "EBOOK_CONVERT_PATH", "BOOKFORGE_RUNTIME_DIR"} {
		t.Setenv(key, "")
	}
}

func TestLoadEnvironmentConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("BOT_TOKEN", "token123")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/book")
	t.Setenv("BOOKFORGE_GUILD_ID", "guild42")

	config := loadEnvironmentConfig()
	if config.BotToken != "token123" {
		t.Errorf("expected token from env, got %q", config.BotToken)
	}
	if config.WebhookURL != "https://hooks.example.com/book" {
		t.Errorf("expected webhook URL from env, got %q", config.WebhookURL)
	}
	if config.GuildID != "guild42" {
		t.Errorf("expected guild ID from env, got %q", config.GuildID)
	}
}

func TestLoadEnvironmentConfigMissingWebhookIsNotFatal(t *testing.T) {
	isolateEnv(t)
	config := loadEnvironmentConfig()
	// the unset endpoint is surfaced at submit time, not here
	if config.WebhookURL != "" {
		t.Errorf("expected empty webhook URL, got %q", config.WebhookURL)
	}
}
