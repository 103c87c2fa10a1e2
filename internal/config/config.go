package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Store configuration
	DatabasePath string

	// Collection configuration
	CollectionIntervalSeconds int
	DefaultTimeline           string // "month", "year" or empty for no filtering
	NewsSites                 []string
	WebPages                  []string
	RSSFeeds                  []string

	// API credentials (absence degrades the collector, never fatal)
	YouTubeAPIKey      string
	TwitterBearerToken string

	// Notification configuration
	WebhookURL        string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DatabasePath: getEnv("DATABASE_PATH", "brandwatch.db"),

		CollectionIntervalSeconds: getIntEnv("COLLECTION_INTERVAL_SECONDS", 120),
		DefaultTimeline:           getEnv("DEFAULT_TIMELINE", "year"),
		NewsSites:                 getSliceEnv("NEWS_SITES", nil),
		WebPages:                  getSliceEnv("WEB_PAGES", nil),
		RSSFeeds:                  getSliceEnv("RSS_FEEDS", nil),

		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),

		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.CollectionIntervalSeconds <= 0 {
		return fmt.Errorf("COLLECTION_INTERVAL_SECONDS must be positive")
	}

	switch c.DefaultTimeline {
	case "", "month", "year":
	default:
		return fmt.Errorf("DEFAULT_TIMELINE must be 'month', 'year' or empty")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
