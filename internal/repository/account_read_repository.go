package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/account-api/shared/models"
	sharedredis "github.com/eaglebank/account-api/shared/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository handles all read operations for accounts.
// Existence checks hit the Redis read model first; listings and credential
// lookups always go to PostgreSQL.
type AccountReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.AccountView]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client, log zerolog.Logger) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.AccountView](redisClient, accountViewKeyPrefix, 0, log),
	}
}

// Exists reports whether any account, active or deactivated, owns email.
func (r *AccountReadRepository) Exists(ctx context.Context, email string) (bool, error) {
	if r.cache.Has(ctx, email) {
		return true, nil
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return exists, nil
}

// ListActive returns active accounts, oldest first.
func (r *AccountReadRepository) ListActive(ctx context.Context) ([]models.AccountView, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active ORDER BY created_at, email`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	views := make([]models.AccountView, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, *account.View())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return views, nil
}

// FindCredentials loads the write model for authentication. Hashes are never
// cached, so this always reads PostgreSQL.
func (r *AccountReadRepository) FindCredentials(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called by the command service after every mutation.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	r.cache.Set(ctx, view.Email, view)
}

// MoveAccountView re-keys the read model after an email change.
func (r *AccountReadRepository) MoveAccountView(ctx context.Context, previousEmail string, view *models.AccountView) {
	r.cache.Move(ctx, previousEmail, view.Email, view)
}
