package session

import (
	"context"
	"errors"
)

const (
	MinWeek = 1
	MaxWeek = 6
	MinDay  = 1
	MaxDay  = 4
)

var (
	ErrWeekOutOfRange = errors.New("week must be between 1 and 6")
	ErrDayOutOfRange  = errors.New("day must be between 1 and 4")
)

// Prompt marks which value a bare digit reply should set after the bot has
// shown a selection keyboard.
type Prompt string

const (
	PromptNone Prompt = ""
	PromptDay  Prompt = "day"
	PromptWeek Prompt = "week"
)

// Session is a user's position in the 6-week, 4-day program. CurrentDay 0
// means the user has not picked a day yet.
type Session struct {
	UserID        int64  `db:"user_id"`
	CurrentWeek   int    `db:"current_week"`
	CurrentDay    int    `db:"current_day"`
	PendingPrompt Prompt `db:"pending_prompt"`
}

// OverloadDelta is the number of sets added on top of the base routine for
// the session's week.
func (s *Session) OverloadDelta() int {
	return s.CurrentWeek - 1
}

// Store tracks per-user sessions. Implementations serialize access
// internally; callers never share Session pointers across goroutines.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	SetWeek(ctx context.Context, userID int64, week int) error
	SetDay(ctx context.Context, userID int64, day int) error
	AdvanceWeek(ctx context.Context, userID int64) (int, error)
	SetPendingPrompt(ctx context.Context, userID int64, prompt Prompt) error
}

// nextWeek wraps the 6-week cycle back to week 1.
func nextWeek(week int) int {
	return week%MaxWeek + 1
}
