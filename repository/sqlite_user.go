package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/pkg"
	"github.com/google/uuid"
)

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo, constructor. Interface döner, concrete struct değil.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

const userColumns = `id, email, password_hash, business_name, stripe_account_id,
	stripe_connected, plan, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.BusinessName, &user.StripeAccountID,
		&user.StripeConnected, &user.Plan, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Plan == "" {
		user.Plan = models.PlanFree
	}

	query := `
		INSERT INTO users (id, email, password_hash, business_name, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.BusinessName, user.Plan, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) SetStripeAccount(ctx context.Context, userID, accountID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET stripe_account_id = ?, updated_at = ? WHERE id = ?`,
		accountID, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set stripe account: %w", err)
	}
	return expectAffected(result, "user")
}

func (r *sqliteUserRepo) MarkStripeConnected(ctx context.Context, accountID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET stripe_connected = 1, updated_at = ? WHERE stripe_account_id = ?`,
		time.Now().UTC(), accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark stripe connected: %w", err)
	}
	return expectAffected(result, "user")
}

func (r *sqliteUserRepo) UpdatePlan(ctx context.Context, userID string, plan models.UserPlan) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET plan = ?, updated_at = ? WHERE id = ?`,
		plan, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return expectAffected(result, "user")
}
