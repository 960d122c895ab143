package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2, cfg.Reminders.WindowDays)
	assert.Equal(t, 5*time.Second, cfg.Reminders.DisplayDuration)
	assert.Equal(t, 50, cfg.Notifications.Capacity)
	assert.True(t, cfg.Dashboard.SeedSampleData)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("REMINDER_WINDOW_DAYS", "5")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("DASHBOARD_TIMEZONE", "Europe/Berlin")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Reminders.WindowDays)
	assert.False(t, cfg.Dashboard.SeedSampleData)
	assert.Equal(t, "console", cfg.Logger.Format)

	loc, err := cfg.Dashboard.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "port out of range", key: "SERVER_PORT", val: "70000"},
		{name: "negative reminder window", key: "REMINDER_WINDOW_DAYS", val: "-1"},
		{name: "unknown timezone", key: "DASHBOARD_TIMEZONE", val: "Mars/Olympus"},
		{name: "zero notification capacity", key: "NOTIFICATION_CAPACITY", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
