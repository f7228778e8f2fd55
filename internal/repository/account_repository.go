package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/account-api/shared/models"
	"github.com/lib/pq"
)

const accountColumns = `id, name, last_name, email, password_hash, address, user_type, active, created_at, updated_at`

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Name, account.LastName, account.Email, account.PasswordHash,
		nullString(account.Address), account.UserType, account.Active,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByEmail fetches the full write model (including PasswordHash) whether or not
// the account is still active.
func (r *AccountWriteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
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

// Update rewrites the mutable fields of the active account registered under
// currentEmail. account.Email may differ from currentEmail.
func (r *AccountWriteRepository) Update(ctx context.Context, currentEmail string, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, last_name = $3, email = $4, password_hash = $5,
			address = $6, user_type = $7, updated_at = $8
		WHERE email = $1 AND active
	`
	result, err := r.db.ExecContext(ctx, query,
		currentEmail, account.Name, account.LastName, account.Email, account.PasswordHash,
		nullString(account.Address), account.UserType, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailExists
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectOneRow(result)
}

// Deactivate soft-deletes an active account and returns its new state.
func (r *AccountWriteRepository) Deactivate(ctx context.Context, email string, at time.Time) (*models.Account, error) {
	query := `
		UPDATE accounts SET active = FALSE, updated_at = $2
		WHERE email = $1 AND active
		RETURNING ` + accountColumns
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate account: %w", err)
	}
	return account, nil
}

// UpdatePassword replaces the credential without touching the active flag.
func (r *AccountWriteRepository) UpdatePassword(ctx context.Context, email, passwordHash string, at time.Time) error {
	query := `UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE email = $1`
	result, err := r.db.ExecContext(ctx, query, email, passwordHash, at)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectOneRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	var address sql.NullString
	err := row.Scan(
		&account.ID, &account.Name, &account.LastName, &account.Email, &account.PasswordHash,
		&address, &account.UserType, &account.Active, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		account.Address = address.String
	}
	return &account, nil
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
