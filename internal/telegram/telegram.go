package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gymtracker/internal/ai"
	"gymtracker/internal/catalog"
	"gymtracker/internal/session"
	"gymtracker/internal/sheets"
	"gymtracker/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WorkoutSheet is the spreadsheet surface the handler needs.
type WorkoutSheet interface {
	LogWorkout(ctx context.Context, entry sheets.LogEntry) error
	DayProgress(ctx context.Context, day, week int) (string, error)
	ExerciseHistory(ctx context.Context, exerciseName string, day int) ([]sheets.HistoryItem, error)
}

type Handler struct {
	bot      *tgbotapi.BotAPI
	sessions session.Store
	catalog  *catalog.Catalog
	parser   ai.Parser
	sheet    WorkoutSheet

	send         func(chatID int64, text string) error
	sendKeyboard func(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error
}

// NewHandler connects to the Bot API. sheet may be nil when the spreadsheet
// connection failed at startup; logging is then disabled but the bot still
// answers commands.
func NewHandler(cfg *config.Config, sessions session.Store, cat *catalog.Catalog, parser ai.Parser, sheet WorkoutSheet) (*Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	logrus.Infof("Telegram bot started: %s", bot.Self.UserName)

	h := &Handler{
		bot:      bot,
		sessions: sessions,
		catalog:  cat,
		parser:   parser,
		sheet:    sheet,
	}
	h.send = h.sendMessage
	h.sendKeyboard = h.sendMessageWithKeyboard
	return h, nil
}

// Run long-polls for updates until the context is cancelled. Each update is
// handled on its own goroutine; sessions are independent per user.
func (h *Handler) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go h.handleUpdate(update)
		}
	}
}

func (h *Handler) handleUpdate(update tgbotapi.Update) {
	ctx := context.Background()

	logger := logrus.WithFields(logrus.Fields{
		"request_id": uuid.New().String(),
		"user_id":    update.Message.From.ID,
	})

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if update.Message.IsCommand() {
		h.handleCommand(ctx, logger, chatID, userID, update.Message.Command(), update.Message.CommandArguments())
		return
	}

	h.handleText(ctx, logger, chatID, userID, update.Message.Text)
}

func (h *Handler) handleCommand(ctx context.Context, logger *logrus.Entry, chatID, userID int64, command, args string) {
	args = strings.TrimSpace(args)

	switch command {
	case "start":
		if _, err := h.sessions.Get(ctx, userID); err != nil {
			logger.Errorf("Failed to load session: %v", err)
		}
		h.send(chatID, welcomeText)

	case "help":
		h.send(chatID, helpText)

	case "setweek":
		if args == "" {
			if err := h.sessions.SetPendingPrompt(ctx, userID, session.PromptWeek); err != nil {
				logger.Errorf("Failed to set pending prompt: %v", err)
			}
			h.sendKeyboard(chatID, "Which week are you in? (1-6)", weekKeyboard())
			return
		}
		h.setWeek(ctx, logger, chatID, userID, args)

	case "setday":
		if args == "" {
			if err := h.sessions.SetPendingPrompt(ctx, userID, session.PromptDay); err != nil {
				logger.Errorf("Failed to set pending prompt: %v", err)
			}
			h.sendKeyboard(chatID, "Which day are you training? (1-4)", dayKeyboard())
			return
		}
		h.setDay(ctx, logger, chatID, userID, args)

	case "status":
		sess, err := h.sessions.Get(ctx, userID)
		if err != nil {
			logger.Errorf("Failed to load session: %v", err)
			h.send(chatID, "Something went wrong loading your status. Please try again.")
			return
		}
		dayStr := "Not set"
		if sess.CurrentDay != 0 {
			dayStr = strconv.Itoa(sess.CurrentDay)
		}
		h.send(chatID, fmt.Sprintf("Your Current Status:\n\n📅 Week: %d/6\n🏋️ Day: %s\n\nProgressive overload: +%d sets from base routine",
			sess.CurrentWeek, dayStr, sess.OverloadDelta()))

	case "today":
		sess, err := h.sessions.Get(ctx, userID)
		if err != nil {
			logger.Errorf("Failed to load session: %v", err)
			h.send(chatID, "Something went wrong loading your status. Please try again.")
			return
		}
		if sess.CurrentDay == 0 {
			h.send(chatID, "Please set your workout day first with /setday")
			return
		}
		h.send(chatID, h.catalog.DaySummary(sess.CurrentDay))

	case "week":
		h.weekSummary(ctx, logger, chatID, userID)

	case "schedule":
		if args == "" {
			h.send(chatID, "Usage: /schedule <day_number>\nExample: /schedule 1")
			return
		}
		day, err := strconv.Atoi(args)
		if err != nil {
			h.send(chatID, "Usage: /schedule <day_number>\nExample: /schedule 1")
			return
		}
		if day < session.MinDay || day > session.MaxDay {
			h.send(chatID, "Please choose a day between 1 and 4.")
			return
		}
		h.send(chatID, h.catalog.DaySummary(day))

	case "history":
		if args == "" {
			h.send(chatID, "Usage: /history <exercise>\nExample: /history press banca")
			return
		}
		h.exerciseHistory(ctx, logger, chatID, args)

	case "nextweek":
		week, err := h.sessions.AdvanceWeek(ctx, userID)
		if err != nil {
			logger.Errorf("Failed to advance week: %v", err)
			h.send(chatID, "Something went wrong moving to the next week. Please try again.")
			return
		}
		h.send(chatID, fmt.Sprintf("🎉 Moved to Week %d!\n\nProgressive overload: +%d sets from base routine.\nKeep crushing it! 💪",
			week, week-1))

	default:
		h.send(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (h *Handler) setWeek(ctx context.Context, logger *logrus.Entry, chatID, userID int64, arg string) {
	week, err := strconv.Atoi(arg)
	if err != nil {
		h.send(chatID, "Please provide a valid week number (1-6).")
		return
	}

	err = h.sessions.SetWeek(ctx, userID, week)
	if errors.Is(err, session.ErrWeekOutOfRange) {
		h.send(chatID, "Please choose a week between 1 and 6.")
		return
	}
	if err != nil {
		logger.Errorf("Failed to set week: %v", err)
		h.send(chatID, "Something went wrong saving your week. Please try again.")
		return
	}

	h.send(chatID, fmt.Sprintf("✅ Set to Week %d\n\nProgressive overload will add %d extra sets to your base routine.",
		week, week-1))
}

func (h *Handler) setDay(ctx context.Context, logger *logrus.Entry, chatID, userID int64, arg string) {
	day, err := strconv.Atoi(arg)
	if err != nil {
		h.send(chatID, "Please provide a valid day number (1-4).")
		return
	}

	err = h.sessions.SetDay(ctx, userID, day)
	if errors.Is(err, session.ErrDayOutOfRange) {
		h.send(chatID, "Please choose a day between 1 and 4.")
		return
	}
	if err != nil {
		logger.Errorf("Failed to set day: %v", err)
		h.send(chatID, "Something went wrong saving your day. Please try again.")
		return
	}

	h.send(chatID, fmt.Sprintf("✅ Set to Day %d\n\n%s", day, h.catalog.DaySummary(day)))
}

func (h *Handler) weekSummary(ctx context.Context, logger *logrus.Entry, chatID, userID int64) {
	sess, err := h.sessions.Get(ctx, userID)
	if err != nil {
		logger.Errorf("Failed to load session: %v", err)
		h.send(chatID, "Something went wrong loading your status. Please try again.")
		return
	}

	if h.sheet == nil {
		h.send(chatID, "⚠️ Google Sheets is not connected, so progress is unavailable.")
		return
	}

	summary := fmt.Sprintf("Week %d Summary:\n", sess.CurrentWeek)
	for day := session.MinDay; day <= session.MaxDay; day++ {
		progress, err := h.sheet.DayProgress(ctx, day, sess.CurrentWeek)
		if err != nil {
			logger.Errorf("Failed to load day %d progress: %v", day, err)
			summary += fmt.Sprintf("\nDay %d: error loading progress\n", day)
			continue
		}
		summary += "\n" + progress
	}

	h.send(chatID, summary)
}

func (h *Handler) exerciseHistory(ctx context.Context, logger *logrus.Entry, chatID int64, query string) {
	exercise := h.catalog.Find(query)
	if exercise == nil {
		h.send(chatID, fmt.Sprintf("I don't know %q. Use /schedule to see the exercise names.", query))
		return
	}

	if h.sheet == nil {
		h.send(chatID, "⚠️ Google Sheets is not connected, so history is unavailable.")
		return
	}

	history, err := h.sheet.ExerciseHistory(ctx, exercise.Name, exercise.Day)
	if err != nil {
		if errors.Is(err, sheets.ErrExerciseNotFound) {
			h.send(chatID, fmt.Sprintf("❌ I couldn't find %s in the Day %d section of the sheet.", exercise.Name, exercise.Day))
			return
		}
		logger.Errorf("Failed to load exercise history: %v", err)
		h.send(chatID, "Something went wrong loading the history. Please try again.")
		return
	}

	summary := fmt.Sprintf("%s History:\n", exercise.Name)
	for _, item := range history {
		line := "Not logged"
		if item.Series != "" {
			line = item.Series
			if item.Weight != nil {
				line += fmt.Sprintf(" @ %gkg", *item.Weight)
			}
		}
		summary += fmt.Sprintf("\nWeek %d: %s", item.Week, line)
	}

	h.send(chatID, summary)
}

func (h *Handler) handleText(ctx context.Context, logger *logrus.Entry, chatID, userID int64, text string) {
	text = strings.TrimSpace(text)

	sess, err := h.sessions.Get(ctx, userID)
	if err != nil {
		logger.Errorf("Failed to load session: %v", err)
		h.send(chatID, "Something went wrong. Please try again.")
		return
	}

	// Bare digits answer an open selection keyboard, or pick a day directly
	// the way the original bot allowed.
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= session.MaxWeek {
		if sess.PendingPrompt == session.PromptWeek {
			h.setWeek(ctx, logger, chatID, userID, text)
			return
		}
		if n <= session.MaxDay {
			h.setDay(ctx, logger, chatID, userID, text)
			return
		}
	}

	if sess.CurrentDay == 0 {
		h.send(chatID, "⚠️ Please set your workout day first with /setday")
		return
	}

	h.send(chatID, "🤔 Processing your workout...")

	known := h.catalog.ForDay(sess.CurrentDay)
	knownNames := make([]string, len(known))
	for i, ex := range known {
		knownNames[i] = ex.Name
	}

	parsed, err := h.parser.ParseWorkout(ctx, text, sess.CurrentDay, knownNames)
	if err != nil {
		if !errors.Is(err, ai.ErrNotParsed) {
			logger.Errorf("Workout parsing failed: %v", err)
		}
		h.send(chatID, parseFailText)
		return
	}

	exercise := h.catalog.Find(parsed.ExerciseName)
	if exercise == nil {
		logger.Warnf("Parsed exercise %q is not in the catalog", parsed.ExerciseName)
		h.send(chatID, parseFailText)
		return
	}

	// The exercise's own day wins over the session day; users sometimes log
	// an exercise from another day's split.
	entry := sheets.LogEntry{
		ExerciseName: exercise.Name,
		Week:         sess.CurrentWeek,
		Day:          exercise.Day,
		Sets:         parsed.Sets,
		Reps:         parsed.Reps,
		Weight:       parsed.Weight,
	}

	if h.sheet == nil {
		h.send(chatID, "⚠️ Google Sheets is not connected, so I couldn't save this workout.")
		return
	}

	if err := h.sheet.LogWorkout(ctx, entry); err != nil {
		if errors.Is(err, sheets.ErrExerciseNotFound) {
			h.send(chatID, fmt.Sprintf("❌ I couldn't find %s in the Day %d section of the sheet.", exercise.Name, entry.Day))
			return
		}
		logger.Errorf("Failed to log workout: %v", err)
		h.send(chatID, "❌ Failed to save your workout. Please try again.")
		return
	}

	encouragement := h.parser.Encourage(ctx, exercise.Name, entry.Summary())
	h.send(chatID, fmt.Sprintf("✅ Logged: %s\n\n%s", entry.Summary(), encouragement))
}

func (h *Handler) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		logrus.Errorf("Failed to send message: %v", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (h *Handler) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		logrus.Errorf("Failed to send message: %v", err)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func dayKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("1"),
			tgbotapi.NewKeyboardButton("2"),
			tgbotapi.NewKeyboardButton("3"),
			tgbotapi.NewKeyboardButton("4"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func weekKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("1"),
			tgbotapi.NewKeyboardButton("2"),
			tgbotapi.NewKeyboardButton("3"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("4"),
			tgbotapi.NewKeyboardButton("5"),
			tgbotapi.NewKeyboardButton("6"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}
