package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/models"
)

type sqliteFollowupRepo struct {
	db database.TxQuerier
}

// NewSQLiteFollowupRepo, constructor.
func NewSQLiteFollowupRepo(db database.TxQuerier) FollowupRepository {
	return &sqliteFollowupRepo{db: db}
}

func (r *sqliteFollowupRepo) Create(ctx context.Context, f *models.Followup) error {
	if f.Status == "" {
		f.Status = models.FollowupPending
	}
	f.ScheduledAt = f.ScheduledAt.UTC()

	query := `
		INSERT INTO followups (quote_id, scheduled_at, message, status)
		VALUES (?, ?, ?, ?)
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, f.QuoteID, f.ScheduledAt, f.Message, f.Status).Scan(&f.ID); err != nil {
		return fmt.Errorf("failed to create followup: %w", err)
	}
	return nil
}

func (r *sqliteFollowupRepo) ListByQuote(ctx context.Context, quoteID string) ([]models.Followup, error) {
	query := `
		SELECT id, quote_id, scheduled_at, sent_at, message, status
		FROM followups
		WHERE quote_id = ?
		ORDER BY scheduled_at, id`

	rows, err := r.db.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followups: %w", err)
	}
	defer rows.Close()

	followups := []models.Followup{}
	for rows.Next() {
		var (
			f      models.Followup
			sentAt sql.NullTime
		)
		if err := rows.Scan(&f.ID, &f.QuoteID, &f.ScheduledAt, &sentAt, &f.Message, &f.Status); err != nil {
			return nil, fmt.Errorf("failed to scan followup: %w", err)
		}
		f.SentAt = timePtr(sentAt)
		followups = append(followups, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating followups: %w", err)
	}

	return followups, nil
}

func (r *sqliteFollowupRepo) CancelPending(ctx context.Context, quoteID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE followups SET status = 'cancelled' WHERE quote_id = ? AND status = 'pending'`,
		quoteID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel followups: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n, nil
}

func (r *sqliteFollowupRepo) ListPending(ctx context.Context, dueBefore *time.Time) ([]models.DueFollowup, error) {
	query := `
		SELECT f.id, f.quote_id, f.scheduled_at, f.sent_at, f.message, f.status,
		       q.slug, q.title, q.client_email
		FROM followups f
		JOIN quotes q ON q.id = f.quote_id
		WHERE f.status = 'pending'`
	args := []any{}
	if dueBefore != nil {
		query += ` AND f.scheduled_at <= ?`
		args = append(args, dueBefore.UTC())
	}
	query += ` ORDER BY f.scheduled_at, f.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending followups: %w", err)
	}
	defer rows.Close()

	due := []models.DueFollowup{}
	for rows.Next() {
		var (
			d      models.DueFollowup
			sentAt sql.NullTime
		)
		if err := rows.Scan(
			&d.ID, &d.QuoteID, &d.ScheduledAt, &sentAt, &d.Message, &d.Status,
			&d.Slug, &d.Title, &d.ClientEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pending followup: %w", err)
		}
		d.SentAt = timePtr(sentAt)
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending followups: %w", err)
	}

	return due, nil
}

func (r *sqliteFollowupRepo) DeleteByQuote(ctx context.Context, quoteID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM followups WHERE quote_id = ?`, quoteID); err != nil {
		return fmt.Errorf("failed to delete followups: %w", err)
	}
	return nil
}
