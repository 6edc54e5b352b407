package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DataFile      string
	PublicDir     string
	AdminPassword string

	// Default business used when an inbound number is not in the directory
	// entries; also the sender identity for notifications.
	BusinessName  string
	BusinessPhone string
	FormURL       string

	// Extra directory entries: "+1443...=Name|https://form,..." (see
	// the directory package).
	DirectoryEntries string

	// Image host (upload gateway). Empty URL means inline fallback only.
	ImageHostURL    string
	ImageHostToken  string
	ImageHostSecret string

	// SMTP for new-lead notifications. Empty host disables them.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	NotifyFrom   string
	NotifyTo     string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		DataFile:      getEnv("DATA_FILE", "leads.json"),
		PublicDir:     getEnv("PUBLIC_DIR", "public"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		BusinessName:  getEnv("BUSINESS_NAME", "Preferred Brick Staining Solutions"),
		BusinessPhone: getEnv("BUSINESS_PHONE", ""),
		FormURL:       getEnv("FORM_URL", "http://localhost:3000"),

		DirectoryEntries: getEnv("BUSINESS_DIRECTORY", ""),

		ImageHostURL:    getEnv("IMAGE_HOST_URL", ""),
		ImageHostToken:  getEnv("IMAGE_HOST_TOKEN", ""),
		ImageHostSecret: getEnv("IMAGE_HOST_SECRET", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		NotifyFrom:   getEnv("NOTIFY_FROM", "no-reply@localhost"),
		NotifyTo:     getEnv("NOTIFY_TO", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
