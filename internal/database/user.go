// internal/database/user.go

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friendsservice/friendsservice/internal/auth"
	"github.com/friendsservice/friendsservice/internal/friendship"
	"github.com/friendsservice/friendsservice/internal/models"
)

// AccountStore persists user accounts and implements
// friendship.AccountDirectory for the core services.
type AccountStore struct {
	q querier
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{q: pool}
}

// Create inserts a user with a hashed password. The caller is responsible
// for mapping a unique violation on username to its response.
func (s *AccountStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	hash, err := auth.CreateHash(user.Password, auth.Params)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, username, password, created_at)
	      VALUES ($1, $2, $3, $4)`

	if _, err := s.q.Exec(ctx, q, user.ID, user.Username, user.Password, user.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Resolve returns the account for a username, or
// friendship.ErrAccountNotFound when the username is unknown.
func (s *AccountStore) Resolve(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	q := `SELECT id, username, created_at FROM users WHERE username=$1`
	err := s.q.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, friendship.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a username is taken.
func (s *AccountStore) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`
	if err := s.q.QueryRow(ctx, q, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ByID returns the account with the given id, or friendship.ErrAccountNotFound.
func (s *AccountStore) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `SELECT id, username, created_at FROM users WHERE id=$1`
	err := s.q.QueryRow(ctx, q, id).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, friendship.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate verifies the credentials and returns a signed session token.
func (s *AccountStore) Authenticate(ctx context.Context, username, password string) (string, error) {
	var u models.User
	q := `SELECT id, username, password FROM users WHERE username=$1`
	err := s.q.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		return "", fmt.Errorf("user not found or db error: %w", err)
	}

	match, err := auth.ComparePasswordAndHash(password, u.Password)
	if err != nil || !match {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := auth.CreateJWT(u.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create jwt: %w", err)
	}
	return token, nil
}

var _ friendship.AccountDirectory = (*AccountStore)(nil)
