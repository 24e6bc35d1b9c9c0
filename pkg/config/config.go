package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TelegramToken     string
	GoogleCredentials string
	GoogleSheetURL    string
	AIProvider        string
	OpenAIKey         string
	OpenAIModel       string
	AnthropicKey      string
	AnthropicModel    string
	ExercisesCSVPath  string
	SessionStore      string
	PostgresHost      string
	PostgresPort      string
	PostgresUser      string
	PostgresPassword  string
	PostgresDB        string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found")
	}

	return &Config{
		TelegramToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS_PATH", "data/google_credentials.json"),
		GoogleSheetURL:    getEnv("GOOGLE_SHEET_URL", ""),
		AIProvider:        getEnv("AI_PROVIDER", "openai"),
		OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicKey:      getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		ExercisesCSVPath:  getEnv("EXERCISES_CSV_PATH", "data/exercises.csv"),
		SessionStore:      getEnv("SESSION_STORE", "memory"),
		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:      getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:        getEnv("POSTGRES_DB", "gymtracker"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
