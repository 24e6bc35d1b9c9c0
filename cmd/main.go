package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gymtracker/internal/ai"
	"gymtracker/internal/catalog"
	"gymtracker/internal/session"
	"gymtracker/internal/sheets"
	"gymtracker/internal/telegram"
	"gymtracker/pkg/config"
	"gymtracker/pkg/db"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig()

	if cfg.TelegramToken == "" {
		logrus.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}
	if cfg.GoogleSheetURL == "" {
		logrus.Fatal("GOOGLE_SHEET_URL is not set")
	}

	cat, err := catalog.Load(cfg.ExercisesCSVPath)
	if err != nil {
		logrus.Fatalf("Failed to load exercise catalog: %v", err)
	}

	var sessions session.Store
	switch cfg.SessionStore {
	case "postgres":
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			logrus.Fatalf("Failed to connect to the database: %v", err)
		}
		defer database.Close()
		sessions = session.NewRepository(database)
	default:
		sessions = session.NewMemoryStore()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The bot still answers commands without the spreadsheet; only logging
	// is disabled until the connection is fixed.
	var sheet telegram.WorkoutSheet
	sheetService, err := sheets.NewService(ctx, cfg.GoogleCredentials, cfg.GoogleSheetURL)
	if err != nil {
		logrus.Warnf("Could not connect to Google Sheets: %v", err)
	} else {
		sheet = sheetService
	}

	parser, err := ai.NewParser(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize the AI parser: %v", err)
	}
	logrus.Infof("AI provider: %s", cfg.AIProvider)

	handler, err := telegram.NewHandler(cfg, sessions, cat, parser, sheet)
	if err != nil {
		logrus.Fatalf("Failed to initialize the Telegram bot: %v", err)
	}

	handler.Run(ctx)

	logrus.Info("Bot stopped")
}
