package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "https://wa.me/", cfg.Reminders.WhatsAppBaseURL)
	assert.Equal(t, "55", cfg.Reminders.CountryCode)
	assert.Equal(t, 1000, cfg.Reminders.ListLimit)
	assert.Equal(t, 100, cfg.Reminders.QueryLimit)
	assert.Equal(t, 24*time.Hour, cfg.Reminders.UpcomingWindow)
	assert.False(t, cfg.Reminders.AtomicPair)
	assert.Equal(t, OrphanPolicyKeep, cfg.Reminders.OrphanPolicy)
	assert.Equal(t, "America/Sao_Paulo", cfg.Reminders.Location.String())
	assert.Contains(t, cfg.Database.DSN, "@tcp(localhost:3306)/podologia")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CLINIC_TIMEZONE", "UTC")
	t.Setenv("REMINDER_ATOMIC_PAIR", "true")
	t.Setenv("REMINDER_ORPHAN_POLICY", "DELETE")
	t.Setenv("REMINDER_UPCOMING_WINDOW_HOURS", "48")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Reminders.Location)
	assert.True(t, cfg.Reminders.AtomicPair)
	assert.Equal(t, OrphanPolicyDelete, cfg.Reminders.OrphanPolicy)
	assert.Equal(t, 48*time.Hour, cfg.Reminders.UpcomingWindow)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "access", cfg.JWTSecret)
}

func TestLoadConfig_AuthRequiresSecrets(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "access")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_REFRESH_SECRET")

	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	_, err = LoadConfig()
	assert.NoError(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"timezone", "CLINIC_TIMEZONE", "Mars/Olympus"},
		{"list limit", "REMINDER_LIST_LIMIT", "0"},
		{"query limit", "REMINDER_QUERY_LIMIT", "abc"},
		{"window", "REMINDER_UPCOMING_WINDOW_HOURS", "-1"},
		{"atomic pair", "REMINDER_ATOMIC_PAIR", "maybe"},
		{"orphan policy", "REMINDER_ORPHAN_POLICY", "archive"},
		{"auth", "AUTH_ENABLED", "yes please"},
		{"jwt minutes", "JWT_EXPIRATION_MINUTES", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
