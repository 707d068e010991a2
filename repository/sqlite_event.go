package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/models"
)

type sqliteEventRepo struct {
	db database.TxQuerier
}

// NewSQLiteEventRepo, constructor.
func NewSQLiteEventRepo(db database.TxQuerier) EventRepository {
	return &sqliteEventRepo{db: db}
}

func (r *sqliteEventRepo) Create(ctx context.Context, e *models.QuoteEvent) error {
	if len(e.Metadata) == 0 {
		e.Metadata = json.RawMessage(`{}`)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO quote_events (quote_id, event_type, metadata, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		e.QuoteID, e.EventType, string(e.Metadata), e.IPAddress, e.UserAgent, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create quote event: %w", err)
	}
	return nil
}

func (r *sqliteEventRepo) ListByQuote(ctx context.Context, quoteID string, limit int) ([]models.QuoteEvent, error) {
	query := `
		SELECT id, quote_id, event_type, metadata, ip_address, user_agent, created_at
		FROM quote_events
		WHERE quote_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, quoteID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote events: %w", err)
	}
	defer rows.Close()

	events := []models.QuoteEvent{}
	for rows.Next() {
		var (
			e        models.QuoteEvent
			metadata string
		)
		if err := rows.Scan(&e.ID, &e.QuoteID, &e.EventType, &metadata, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote event: %w", err)
		}
		e.Metadata = json.RawMessage(metadata)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote events: %w", err)
	}

	return events, nil
}

func (r *sqliteEventRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.RecentEvent, error) {
	query := `
		SELECT e.id, e.quote_id, e.event_type, e.metadata, e.ip_address, e.user_agent, e.created_at,
		       q.title, q.client_name
		FROM quote_events e
		JOIN quotes q ON q.id = e.quote_id
		WHERE q.user_id = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	defer rows.Close()

	events := []models.RecentEvent{}
	for rows.Next() {
		var (
			e        models.RecentEvent
			metadata string
		)
		if err := rows.Scan(
			&e.ID, &e.QuoteID, &e.EventType, &metadata, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
			&e.QuoteTitle, &e.ClientName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent event: %w", err)
		}
		e.Metadata = json.RawMessage(metadata)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent events: %w", err)
	}

	return events, nil
}

func (r *sqliteEventRepo) DeleteByQuote(ctx context.Context, quoteID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quote_events WHERE quote_id = ?`, quoteID); err != nil {
		return fmt.Errorf("failed to delete quote events: %w", err)
	}
	return nil
}
