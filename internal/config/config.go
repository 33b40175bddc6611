package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Default model used for both classification and report generation.
const DefaultGeminiModel = "gemini-2.0-flash"

// Config holds everything the bot needs at startup. It is built once in
// main and passed into constructors explicitly; nothing reads the
// environment after Load returns.
type Config struct {
	// TelegramBotToken authenticates against the Telegram Bot API. Required.
	TelegramBotToken string

	// MasterSheetID is the spreadsheet holding the user_id -> sheet_id
	// registry. Required.
	MasterSheetID string

	// GeminiAPIKey enables free-text classification and analysis. When
	// empty the bot still serves commands but ignores free text.
	GeminiAPIKey string

	// GeminiModel overrides the default Gemini model name.
	GeminiModel string

	// ServiceAccountEmail is shown to users in /help and /register replies
	// so they know whom to share their sheet with.
	ServiceAccountEmail string

	// CredentialsFile is the path to the service-account JSON key for the
	// Sheets API. Empty means Application Default Credentials.
	CredentialsFile string

	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment. It returns an error when a required value is missing so the
// process refuses to start instead of failing mid-run.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		MasterSheetID:       os.Getenv("MASTER_SHEET_ID"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", DefaultGeminiModel),
		ServiceAccountEmail: os.Getenv("SERVICE_ACCOUNT_EMAIL"),
		CredentialsFile:     os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("config: TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.MasterSheetID == "" {
		return nil, fmt.Errorf("config: MASTER_SHEET_ID is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}
