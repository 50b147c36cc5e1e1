package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port string

	// Twilio
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	// Admin notification target (digits only, no whatsapp: prefix)
	AdminNumber string

	// Storage: "postgres" (default), "mongo" or "memory"
	StorageBackend string

	// MongoDB (STORAGE_BACKEND=mongo)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Media store
	MediaBucket string
	MediaRegion string

	// Reminder scanner
	ReminderInterval  time.Duration
	ReminderThreshold time.Duration

	// Skip Twilio signature checks, for local tunnels
	DisableWebhookValidation bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		Port:       getEnv("PORT", "8080"),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),

		AdminNumber: getEnv("ADMIN_NUMBER", "966500609205"),

		StorageBackend: getEnv("STORAGE_BACKEND", "postgres"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "daleel"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		MediaBucket: getEnv("MEDIA_BUCKET", ""),
		MediaRegion: getEnv("MEDIA_REGION", "me-south-1"),

		ReminderInterval:  time.Duration(getEnvAsInt("REMINDER_INTERVAL_SECONDS", 60)) * time.Second,
		ReminderThreshold: time.Duration(getEnvAsInt("REMINDER_THRESHOLD_MINUTES", 30)) * time.Minute,

		DisableWebhookValidation: getEnv("DISABLE_WEBHOOK_VALIDATION", "") == "true",
	}

	// Older deployments used this switch; kept for local runs
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		config.StorageBackend = "memory"
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
