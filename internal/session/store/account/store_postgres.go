package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventgate/internal/session/models"
	"eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

const pqUniqueViolation = "23505"

// PostgresStore persists accounts in PostgreSQL. Email uniqueness is
// enforced case-insensitively by the accounts_email_lower_idx index.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, account *models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		account.UserID.String(), account.Email, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM accounts WHERE LOWER(email) = LOWER($1)`, email)
	return scanAccount(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, userID domain.UserID) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM accounts WHERE user_id = $1`, userID.String())
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a      models.Account
		userID string
	)
	if err := row.Scan(&userID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.UserID = domain.UserID(userID)
	return &a, nil
}
