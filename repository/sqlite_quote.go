package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/google/uuid"
)

type sqliteQuoteRepo struct {
	db database.TxQuerier
}

// NewSQLiteQuoteRepo, constructor.
func NewSQLiteQuoteRepo(db database.TxQuerier) QuoteRepository {
	return &sqliteQuoteRepo{db: db}
}

const quoteColumns = `id, user_id, slug, client_name, client_email, title, description,
	line_items, subtotal, tax_rate, tax_amount, total, deposit_percent, deposit_amount,
	currency, valid_until, status, accepted_at, paid_at, paid_amount, stripe_payment_intent,
	view_count, first_viewed_at, last_viewed_at, notes, created_at, updated_at`

// scanQuote, quoteColumns sırasıyla bir satırı okur.
// line_items TEXT kolonunda JSON array olarak saklanır.
func scanQuote(row scanner) (*models.Quote, error) {
	var (
		q                              models.Quote
		lineItems                      string
		validUntil, acceptedAt, paidAt sql.NullTime
		firstViewedAt, lastViewedAt    sql.NullTime
	)

	err := row.Scan(
		&q.ID, &q.UserID, &q.Slug, &q.ClientName, &q.ClientEmail, &q.Title, &q.Description,
		&lineItems, &q.Subtotal, &q.TaxRate, &q.TaxAmount, &q.Total, &q.DepositPercent, &q.DepositAmount,
		&q.Currency, &validUntil, &q.Status, &acceptedAt, &paidAt, &q.PaidAmount, &q.StripePaymentIntent,
		&q.ViewCount, &firstViewedAt, &lastViewedAt, &q.Notes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(lineItems), &q.LineItems); err != nil {
		return nil, fmt.Errorf("failed to decode line items for quote %s: %w", q.ID, err)
	}
	if q.LineItems == nil {
		q.LineItems = []models.LineItem{}
	}

	q.ValidUntil = timePtr(validUntil)
	q.AcceptedAt = timePtr(acceptedAt)
	q.PaidAt = timePtr(paidAt)
	q.FirstViewedAt = timePtr(firstViewedAt)
	q.LastViewedAt = timePtr(lastViewedAt)
	return &q, nil
}

func encodeLineItems(items []models.LineItem) (string, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode line items: %w", err)
	}
	return string(data), nil
}

// Create, ID ve zaman damgalarını atar. Slug çağıran tarafından üretilir;
// çakışırsa ErrAlreadyExists döner ve service yeni slug ile tekrar dener.
func (r *sqliteQuoteRepo) Create(ctx context.Context, q *models.Quote) error {
	lineItems, err := encodeLineItems(q.LineItems)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	q.ID = uuid.NewString()
	q.CreatedAt = now
	q.UpdatedAt = now
	if q.Status == "" {
		q.Status = models.QuoteStatusDraft
	}

	query := `
		INSERT INTO quotes (
			id, user_id, slug, client_name, client_email, title, description,
			line_items, subtotal, tax_rate, tax_amount, total, deposit_percent, deposit_amount,
			currency, valid_until, status, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		q.ID, q.UserID, q.Slug, q.ClientName, q.ClientEmail, q.Title, q.Description,
		lineItems, q.Subtotal, q.TaxRate, q.TaxAmount, q.Total, q.DepositPercent, q.DepositAmount,
		q.Currency, nullableTime(q.ValidUntil), q.Status, q.Notes, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: slug %s already in use", pkg.ErrAlreadyExists, q.Slug)
		}
		return fmt.Errorf("failed to create quote: %w", err)
	}

	return nil
}

func (r *sqliteQuoteRepo) getOne(ctx context.Context, where string, args ...any) (*models.Quote, error) {
	q, err := scanQuote(r.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE `+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: quote not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

func (r *sqliteQuoteRepo) GetByIDForUser(ctx context.Context, id, userID string) (*models.Quote, error) {
	return r.getOne(ctx, `id = ? AND user_id = ?`, id, userID)
}

func (r *sqliteQuoteRepo) GetBySlug(ctx context.Context, slug string) (*models.Quote, error) {
	return r.getOne(ctx, `slug = ?`, slug)
}

func (r *sqliteQuoteRepo) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	return r.getOne(ctx, `id = ?`, id)
}

// ListByUser, en yeni teklif önce. Aynı created_at'te rowid ile sıralanır.
func (r *sqliteQuoteRepo) ListByUser(ctx context.Context, userID string) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	quotes := []models.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote rows: %w", err)
	}

	return quotes, nil
}

func (r *sqliteQuoteRepo) Update(ctx context.Context, q *models.Quote) error {
	lineItems, err := encodeLineItems(q.LineItems)
	if err != nil {
		return err
	}

	q.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE quotes SET
			client_name = ?, client_email = ?, title = ?, description = ?,
			line_items = ?, subtotal = ?, tax_rate = ?, tax_amount = ?, total = ?,
			deposit_percent = ?, deposit_amount = ?, currency = ?, valid_until = ?,
			notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		q.ClientName, q.ClientEmail, q.Title, q.Description,
		lineItems, q.Subtotal, q.TaxRate, q.TaxAmount, q.Total,
		q.DepositPercent, q.DepositAmount, q.Currency, nullableTime(q.ValidUntil),
		q.Notes, q.UpdatedAt,
		q.ID, q.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	return expectAffected(result, "quote")
}

func (r *sqliteQuoteRepo) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	return expectAffected(result, "quote")
}

func (r *sqliteQuoteRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET status = 'sent', updated_at = ? WHERE id = ? AND status IN ('draft', 'sent')`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark quote sent: %w", err)
	}
	return expectAffected(result, "quote")
}

func (r *sqliteQuoteRepo) MarkAccepted(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET status = 'accepted', accepted_at = ?, updated_at = ?
		 WHERE id = ? AND status = 'sent'`,
		at, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark quote accepted: %w", err)
	}
	return expectAffected(result, "quote")
}

func (r *sqliteQuoteRepo) MarkPaid(ctx context.Context, id string, amount int64, paymentIntent string, at time.Time) error {
	intent := sql.NullString{String: paymentIntent, Valid: paymentIntent != ""}

	result, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET status = 'paid', paid_at = ?, paid_amount = ?, stripe_payment_intent = ?, updated_at = ?
		 WHERE id = ? AND status IN ('sent', 'accepted')`,
		at, amount, intent, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark quote paid: %w", err)
	}
	return expectAffected(result, "quote")
}

func (r *sqliteQuoteRepo) RecordView(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET view_count = view_count + 1,
			first_viewed_at = COALESCE(first_viewed_at, ?),
			last_viewed_at = ?
		 WHERE id = ?`,
		at, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to record quote view: %w", err)
	}
	return expectAffected(result, "quote")
}

// Summary, tek sorguda status sayılarını, görüntülenme ve geliri toplar.
// sent_quotes, bir kez gönderilmiş tüm teklifleri (sent|accepted|paid) sayar.
func (r *sqliteQuoteRepo) Summary(ctx context.Context, userID string) (*models.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status IN ('sent', 'accepted', 'paid') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN ('accepted', 'paid') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(view_count), 0),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN COALESCE(paid_amount, 0) ELSE 0 END), 0)
		FROM quotes WHERE user_id = ?`

	stats := &models.DashboardStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalQuotes, &stats.SentQuotes, &stats.AcceptedQuotes, &stats.PaidQuotes,
		&stats.TotalViews, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize quotes: %w", err)
	}
	return stats, nil
}
