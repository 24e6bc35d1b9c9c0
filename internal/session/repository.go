package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository is the Postgres-backed Store, used when sessions must survive
// restarts (SESSION_STORE=postgres).
//
// Schema:
//
//	CREATE TABLE user_sessions (
//	    user_id        BIGINT PRIMARY KEY,
//	    current_week   INT NOT NULL DEFAULT 1,
//	    current_day    INT NOT NULL DEFAULT 0,
//	    pending_prompt TEXT NOT NULL DEFAULT '',
//	    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, userID int64) (*Session, error) {
	query := `
		SELECT user_id, current_week, current_day, pending_prompt
		FROM user_sessions
		WHERE user_id = $1
	`

	var sess Session
	err := r.db.GetContext(ctx, &sess, query, userID)
	if err == sql.ErrNoRows {
		return r.create(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &sess, nil
}

func (r *Repository) create(ctx context.Context, userID int64) (*Session, error) {
	query := `
		INSERT INTO user_sessions (user_id, current_week, current_day, pending_prompt)
		VALUES ($1, $2, 0, '')
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, current_week, current_day, pending_prompt
	`

	var sess Session
	err := r.db.GetContext(ctx, &sess, query, userID, MinWeek)
	if err == sql.ErrNoRows {
		// Lost a concurrent insert race; the row exists now.
		return r.Get(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &sess, nil
}

func (r *Repository) SetWeek(ctx context.Context, userID int64, week int) error {
	if week < MinWeek || week > MaxWeek {
		return ErrWeekOutOfRange
	}

	query := `
		INSERT INTO user_sessions (user_id, current_week, current_day, pending_prompt, updated_at)
		VALUES ($1, $2, 0, '', NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET current_week = $2, pending_prompt = '', updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, userID, week); err != nil {
		return fmt.Errorf("failed to set week: %w", err)
	}
	return nil
}

func (r *Repository) SetDay(ctx context.Context, userID int64, day int) error {
	if day < MinDay || day > MaxDay {
		return ErrDayOutOfRange
	}

	query := `
		INSERT INTO user_sessions (user_id, current_week, current_day, pending_prompt, updated_at)
		VALUES ($1, $2, $3, '', NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET current_day = $3, pending_prompt = '', updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, userID, MinWeek, day); err != nil {
		return fmt.Errorf("failed to set day: %w", err)
	}
	return nil
}

func (r *Repository) AdvanceWeek(ctx context.Context, userID int64) (int, error) {
	sess, err := r.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	week := nextWeek(sess.CurrentWeek)

	query := `
		UPDATE user_sessions
		SET current_week = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, week); err != nil {
		return 0, fmt.Errorf("failed to advance week: %w", err)
	}
	return week, nil
}

func (r *Repository) SetPendingPrompt(ctx context.Context, userID int64, prompt Prompt) error {
	query := `
		INSERT INTO user_sessions (user_id, current_week, current_day, pending_prompt, updated_at)
		VALUES ($1, $2, 0, $3, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET pending_prompt = $3, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, userID, MinWeek, prompt); err != nil {
		return fmt.Errorf("failed to set pending prompt: %w", err)
	}
	return nil
}
