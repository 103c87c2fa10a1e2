package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "brandwatch.db", cfg.DatabasePath)
	assert.Equal(t, 120, cfg.CollectionIntervalSeconds)
	assert.Equal(t, "year", cfg.DefaultTimeline)
	assert.Empty(t, cfg.YouTubeAPIKey)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("COLLECTION_INTERVAL_SECONDS", "30")
	t.Setenv("DEFAULT_TIMELINE", "month")
	t.Setenv("NEWS_SITES", "https://a.example.com, https://b.example.com")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 30, cfg.CollectionIntervalSeconds)
	assert.Equal(t, "month", cfg.DefaultTimeline)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.NewsSites)
	assert.Equal(t, "yt-key", cfg.YouTubeAPIKey)
}

func TestLoad_RejectsBadTimeline(t *testing.T) {
	t.Setenv("DEFAULT_TIMELINE", "fortnight")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("COLLECTION_INTERVAL_SECONDS", "-5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmailRequiresSMTP(t *testing.T) {
	t.Setenv("NOTIFICATION_EMAIL", "alerts@example.com")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "bot")
	t.Setenv("SMTP_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "alerts@example.com", cfg.NotificationEmail)
	assert.Equal(t, 587, cfg.SMTPPort)
}
