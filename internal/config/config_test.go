package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docflow.yaml")
	content := `
server:
  address: ":9090"
  public_url: "https://docs.example.com/"
telegram:
  bot_token: "123:ABC"
signing:
  secret: "s3cret"
quota:
  limit: 5
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DOCFLOW_SYNC_INTERVAL", "1m")
	t.Setenv("DOCFLOW_WORKERS", "not-a-number")
	t.Setenv("DOCFLOW_S3_USE_SSL", "true")
	t.Setenv("DOCFLOW_PAYMENT_SECRET", "pay-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "https://docs.example.com", cfg.Server.PublicURL)
	assert.Equal(t, "https://docs.example.com/bot123:ABC", cfg.WebhookURL())
	assert.Equal(t, []byte("s3cret"), cfg.Signing.SecretBytes)
	assert.Equal(t, 5, cfg.Quota.Limit)
	assert.Equal(t, 30*24*time.Hour, cfg.Quota.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Minute, cfg.Remote.SyncInterval)
	assert.Equal(t, defaultWorkers, cfg.Server.Workers)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "pay-secret", cfg.Payment.CallbackSecret)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdle)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultAddress, cfg.Server.Address)
	assert.Len(t, cfg.Signing.SecretBytes, 32)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 3, cfg.Quota.Limit)
	assert.Empty(t, cfg.Payment.CallbackSecret)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
