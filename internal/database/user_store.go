package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/models"
)

// UserStore persists user accounts.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Create inserts a new user. A duplicate username or email comes back
// as a Conflict error rather than a raw constraint violation.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	query := `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
			  RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query, username, email, passwordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if uniqueViolation(err, "") {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username. Returns nil, nil when no
// user matches.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getBy(ctx, "username", username)
}

// GetByEmail retrieves a user by email. Returns nil, nil when no user
// matches.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email", email)
}

// GetByID retrieves a user by id. Returns nil, nil when no user matches.
func (s *UserStore) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.getBy(ctx, "id", userID)
}

func (s *UserStore) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(
		`SELECT id, username, email, password_hash, created_at FROM users WHERE %s = $1`, column)

	err := s.pool.QueryRow(ctx, query, value).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}

	return user, nil
}

// Delete removes a user and their watchlist rows in one transaction.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete user tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_cryptocurrencies WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete watchlist for user %s: %w", userID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return tx.Commit(ctx)
}
