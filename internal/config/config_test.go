package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearRelayEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "STATIC_DIR", "TRUSTED_PROXIES", "MAIL_TRANSPORT", "MAIL_FROM", "EMAIL_SERVER_USER",
		"EMAIL_SERVER_PASSWORD", "EMAIL_TO", "SMTP_HOST", "SMTP_PORT", "AWS_REGION",
		"REDIS_ADDR", "REDIS_PASSWORD", "MQ_URL", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_RepositoryConfig(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("EMAIL_SERVER_USER", "me@gmail.com")
	t.Setenv("EMAIL_SERVER_PASSWORD", "app-password")
	t.Setenv("EMAIL_TO", "inbox@example.com")

	dir := filepath.Join("..", "..", "config")

	cfg, err := Load("local", dir)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "log", cfg.Mail.Transport)
	assert.Equal(t, "me@gmail.com", cfg.Mail.From)
	assert.Equal(t, "inbox@example.com", cfg.Mail.To)
	assert.Equal(t, "app-password", cfg.Mail.SMTP.Password)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.Log.Development)
	assert.NoError(t, cfg.Validate())

	cfg, err = Load("production", dir)
	require.NoError(t, err)
	assert.Equal(t, "smtp", cfg.Mail.Transport)
	assert.Equal(t, 5000, cfg.Relay.MaxMessageLength)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Defaults(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("SERVER_PORT", "9000")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("mail:\n  transport: log\n"), 0o600))

	cfg, err := Load("local", dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, int64(64<<10), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 600, cfg.RateLimit.WindowSeconds)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Mail.Transport = "smtp"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.to")
	assert.Contains(t, err.Error(), "mail.from")
	assert.Contains(t, err.Error(), "mail.smtp.host")

	cfg.Mail.Transport = "log"
	cfg.Mail.To = "inbox@example.com"
	assert.NoError(t, cfg.Validate())
}
