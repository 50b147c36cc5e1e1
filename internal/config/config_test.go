package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "me-south-1", cfg.MediaRegion)
	assert.Equal(t, 60*time.Second, cfg.ReminderInterval)
	assert.Equal(t, 30*time.Minute, cfg.ReminderThreshold)
	assert.NotEmpty(t, cfg.AdminNumber)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("REMINDER_THRESHOLD_MINUTES", "45")
	t.Setenv("DISABLE_WEBHOOK_VALIDATION", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mongo", cfg.StorageBackend)
	assert.Equal(t, 45*time.Minute, cfg.ReminderThreshold)
	assert.True(t, cfg.DisableWebhookValidation)
}

func TestMemoryStoreSwitchOverridesBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("USE_MEMORY_STORE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StorageBackend)
}
