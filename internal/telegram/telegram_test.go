package telegram

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gymtracker/internal/ai"
	"gymtracker/internal/catalog"
	"gymtracker/internal/session"
	"gymtracker/internal/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `EJERCICIO,,WEEK 1,,
,,Peso,Series,Notas
Dia 1,,,,
Press Banca,,60,3 x 6-10,
Vuelos Laterales,,10,3 x 12-15,
Dia 2,,,,
Remo con Barra,,50,3 x 6-10,
`

type stubParser struct {
	workout *ai.ParsedWorkout
	err     error
	calls   int
}

func (p *stubParser) ParseWorkout(_ context.Context, _ string, _ int, _ []string) (*ai.ParsedWorkout, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.workout, nil
}

func (p *stubParser) Encourage(_ context.Context, _, _ string) string {
	return "Keep crushing it!"
}

type fakeSheet struct {
	entries []sheets.LogEntry
	logErr  error
}

func (s *fakeSheet) LogWorkout(_ context.Context, entry sheets.LogEntry) error {
	if s.logErr != nil {
		return s.logErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeSheet) DayProgress(_ context.Context, day, week int) (string, error) {
	return "progress stub", nil
}

func (s *fakeSheet) ExerciseHistory(_ context.Context, exerciseName string, day int) ([]sheets.HistoryItem, error) {
	weight := 60.0
	return []sheets.HistoryItem{
		{Week: 1, Series: "3 x 10", Weight: &weight},
		{Week: 2},
	}, nil
}

type testBot struct {
	h    *Handler
	sent []string
}

func newTestBot(t *testing.T, parser ai.Parser, sheet WorkoutSheet) *testBot {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "exercises.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0o644))
	cat, err := catalog.Load(csvPath)
	require.NoError(t, err)

	tb := &testBot{}
	tb.h = &Handler{
		sessions: session.NewMemoryStore(),
		catalog:  cat,
		parser:   parser,
		sheet:    sheet,
	}
	tb.h.send = func(chatID int64, text string) error {
		tb.sent = append(tb.sent, text)
		return nil
	}
	tb.h.sendKeyboard = func(chatID int64, text string, _ tgbotapi.ReplyKeyboardMarkup) error {
		tb.sent = append(tb.sent, text)
		return nil
	}
	return tb
}

func (tb *testBot) command(command, args string) {
	tb.h.handleCommand(context.Background(), testLogger(), 1, 1, command, args)
}

func (tb *testBot) text(text string) {
	tb.h.handleText(context.Background(), testLogger(), 1, 1, text)
}

func (tb *testBot) lastReply() string {
	if len(tb.sent) == 0 {
		return ""
	}
	return tb.sent[len(tb.sent)-1]
}

func testLogger() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

func TestSetWeekCommand(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("setweek", "1")
	assert.Contains(t, tb.lastReply(), "Set to Week 1")

	tb.command("setweek", "7")
	assert.Contains(t, tb.lastReply(), "between 1 and 6")

	sess, err := tb.h.sessions.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.CurrentWeek)
}

func TestSetWeekInvalidArgument(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("setweek", "abc")
	assert.Contains(t, tb.lastReply(), "valid week number")
}

func TestSetDayCommand(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("setday", "0")
	assert.Contains(t, tb.lastReply(), "between 1 and 4")

	tb.command("setday", "2")
	assert.Contains(t, tb.lastReply(), "Set to Day 2")
	assert.Contains(t, tb.lastReply(), "Remo con Barra")
}

func TestNextWeekWrapsAtWeekSix(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("setweek", "6")
	tb.command("nextweek", "")
	assert.Contains(t, tb.lastReply(), "Moved to Week 1")
}

func TestStatusCommand(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("status", "")
	assert.Contains(t, tb.lastReply(), "Week: 1/6")
	assert.Contains(t, tb.lastReply(), "Day: Not set")

	tb.command("setday", "1")
	tb.command("status", "")
	assert.Contains(t, tb.lastReply(), "Day: 1")
}

func TestScheduleCommand(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("schedule", "")
	assert.Contains(t, tb.lastReply(), "Usage: /schedule")

	tb.command("schedule", "9")
	assert.Contains(t, tb.lastReply(), "between 1 and 4")

	tb.command("schedule", "1")
	assert.Contains(t, tb.lastReply(), "Day 1 Exercises")
	assert.Contains(t, tb.lastReply(), "Press Banca")
}

func TestTodayRequiresDay(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("today", "")
	assert.Contains(t, tb.lastReply(), "/setday")

	tb.command("setday", "1")
	tb.command("today", "")
	assert.Contains(t, tb.lastReply(), "Day 1 Exercises")
}

func TestFreeTextLogsWorkout(t *testing.T) {
	weight := 60.0
	parser := &stubParser{workout: &ai.ParsedWorkout{
		ExerciseName: "Press Banca",
		Sets:         3,
		Reps:         "10",
		Weight:       &weight,
	}}
	sheet := &fakeSheet{}
	tb := newTestBot(t, parser, sheet)

	tb.command("setweek", "2")
	tb.command("setday", "1")
	tb.text("3 sets of 10 bench press at 60kg")

	require.Len(t, sheet.entries, 1)
	entry := sheet.entries[0]
	assert.Equal(t, "Press Banca", entry.ExerciseName)
	assert.Equal(t, 2, entry.Week)
	assert.Equal(t, 1, entry.Day)
	assert.Equal(t, 3, entry.Sets)
	assert.Equal(t, "10", entry.Reps)
	require.NotNil(t, entry.Weight)
	assert.Equal(t, 60.0, *entry.Weight)

	assert.Contains(t, tb.lastReply(), "✅ Logged: Press Banca: 3 x 10 @ 60kg")
	assert.Contains(t, tb.lastReply(), "Keep crushing it!")
}

func TestFreeTextRequiresDay(t *testing.T) {
	parser := &stubParser{}
	tb := newTestBot(t, parser, &fakeSheet{})

	tb.text("3 sets of 10 bench press")
	assert.Contains(t, tb.lastReply(), "set your workout day first")
	assert.Equal(t, 0, parser.calls)
}

func TestFreeTextParseFailure(t *testing.T) {
	parser := &stubParser{err: ai.ErrNotParsed}
	sheet := &fakeSheet{}
	tb := newTestBot(t, parser, sheet)

	tb.command("setday", "1")
	tb.text("did some stuff at the gym")

	assert.Contains(t, tb.lastReply(), "couldn't understand")
	assert.Empty(t, sheet.entries)
}

func TestFreeTextUnknownExercise(t *testing.T) {
	parser := &stubParser{workout: &ai.ParsedWorkout{ExerciseName: "Burpees", Sets: 3, Reps: "10"}}
	sheet := &fakeSheet{}
	tb := newTestBot(t, parser, sheet)

	tb.command("setday", "1")
	tb.text("3x10 burpees")

	assert.Contains(t, tb.lastReply(), "couldn't understand")
	assert.Empty(t, sheet.entries)
}

func TestFreeTextSheetRowMissing(t *testing.T) {
	parser := &stubParser{workout: &ai.ParsedWorkout{ExerciseName: "Press Banca", Sets: 3, Reps: "10"}}
	sheet := &fakeSheet{logErr: sheets.ErrExerciseNotFound}
	tb := newTestBot(t, parser, sheet)

	tb.command("setday", "1")
	tb.text("bench 3x10")

	assert.Contains(t, tb.lastReply(), "couldn't find Press Banca")
}

func TestPendingWeekPromptDigitSetsWeek(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("setweek", "")
	assert.Contains(t, tb.lastReply(), "Which week")

	tb.text("5")
	assert.Contains(t, tb.lastReply(), "Set to Week 5")

	sess, err := tb.h.sessions.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, sess.CurrentWeek)
	assert.Equal(t, 0, sess.CurrentDay)
}

func TestBareDigitSetsDay(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.text("3")
	assert.Contains(t, tb.lastReply(), "Set to Day 3")

	sess, err := tb.h.sessions.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.CurrentDay)
}

func TestWeekSummary(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("week", "")
	reply := tb.lastReply()
	assert.Contains(t, reply, "Week 1 Summary:")
	assert.Equal(t, 4, strings.Count(reply, "progress stub"))
}

func TestWeekSummaryWithoutSheet(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, nil)

	tb.command("week", "")
	assert.Contains(t, tb.lastReply(), "not connected")
}

func TestFreeTextWithoutSheet(t *testing.T) {
	parser := &stubParser{workout: &ai.ParsedWorkout{ExerciseName: "Press Banca", Sets: 3, Reps: "10"}}
	tb := newTestBot(t, parser, nil)

	tb.command("setday", "1")
	tb.text("bench 3x10")
	assert.Contains(t, tb.lastReply(), "couldn't save")
}

func TestHistoryCommand(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("history", "")
	assert.Contains(t, tb.lastReply(), "Usage: /history")

	tb.command("history", "burpees")
	assert.Contains(t, tb.lastReply(), "/schedule")

	tb.command("history", "press banca")
	reply := tb.lastReply()
	assert.Contains(t, reply, "Press Banca History:")
	assert.Contains(t, reply, "Week 1: 3 x 10 @ 60kg")
	assert.Contains(t, reply, "Week 2: Not logged")
}

func TestUnknownCommand(t *testing.T) {
	tb := newTestBot(t, &stubParser{}, &fakeSheet{})

	tb.command("frobnicate", "")
	assert.Contains(t, tb.lastReply(), "/help")
}
