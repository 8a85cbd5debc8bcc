// internal/database/friendship.go

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friendsservice/friendsservice/internal/friendship"
	"github.com/friendsservice/friendsservice/internal/models"
)

// maxTxAttempts bounds retries of serializable transactions that abort with
// a serialization failure. Each retry reruns the same logical attempt.
const maxTxAttempts = 3

// FriendshipStore implements friendship.Store over postgres.
//
// The friendships table has no unique constraint on the (sender, recipient)
// pair; "first match" queries order by created_at DESC, id DESC so the most
// recent record wins deterministically.
type FriendshipStore struct {
	pool *pgxpool.Pool
	q    querier
}

func NewFriendshipStore(pool *pgxpool.Pool) *FriendshipStore {
	return &FriendshipStore{pool: pool, q: pool}
}

// Transact runs fn inside a serializable transaction, retrying on
// serialization failures (SQLSTATE 40001) up to maxTxAttempts. When the store
// is already transaction-scoped, fn joins the open transaction.
func (s *FriendshipStore) Transact(ctx context.Context, fn func(friendship.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
			return fn(&FriendshipStore{q: tx})
		})
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "40001" {
			continue
		}
		return err
	}
	return fmt.Errorf("serializable transaction kept conflicting after %d attempts: %w", maxTxAttempts, err)
}

// Create inserts a friendship row.
func (s *FriendshipStore) Create(ctx context.Context, f *models.Friendship) error {
	q := `
		INSERT INTO friendships (id, sender_id, recipient_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.q.Exec(ctx, q, f.ID, f.SenderID, f.RecipientID, f.Status, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert friendship: %w", err)
	}
	return nil
}

const friendshipColumns = `id, sender_id, recipient_id, status, created_at`

func scanFriendship(row pgx.Row) (*models.Friendship, error) {
	var f models.Friendship
	err := row.Scan(&f.ID, &f.SenderID, &f.RecipientID, &f.Status, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FirstBetween returns the most recent record between a and b in either
// direction, any status, or nil when the pair has no history.
func (s *FriendshipStore) FirstBetween(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	q := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (sender_id=$1 AND recipient_id=$2)
		   OR (sender_id=$2 AND recipient_id=$1)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanFriendship(s.q.QueryRow(ctx, q, a, b))
}

// FirstBetweenExcluding is FirstBetween skipping rows in the given status.
func (s *FriendshipStore) FirstBetweenExcluding(ctx context.Context, a, b uuid.UUID, exclude models.FriendshipStatus) (*models.Friendship, error) {
	q := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE ((sender_id=$1 AND recipient_id=$2)
		    OR (sender_id=$2 AND recipient_id=$1))
		  AND status <> $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanFriendship(s.q.QueryRow(ctx, q, a, b, exclude))
}

// ActiveByID returns the record with the given id while it is still pending.
func (s *FriendshipStore) ActiveByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	q := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE id=$1 AND status=$2
	`
	return scanFriendship(s.q.QueryRow(ctx, q, id, models.StatusActive))
}

// SetStatus persists a status change and mirrors it onto f.
func (s *FriendshipStore) SetStatus(ctx context.Context, f *models.Friendship, status models.FriendshipStatus) error {
	q := `UPDATE friendships SET status=$1 WHERE id=$2`
	ct, err := s.q.Exec(ctx, q, status, f.ID)
	if err != nil {
		return fmt.Errorf("failed to update friendship status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("friendship %s not found", f.ID)
	}
	f.Status = status
	return nil
}

func (s *FriendshipStore) queryFriendships(ctx context.Context, q string, args ...any) ([]models.Friendship, error) {
	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs []models.Friendship
	for rows.Next() {
		var f models.Friendship
		if err := rows.Scan(&f.ID, &f.SenderID, &f.RecipientID, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, rows.Err()
}

// SentBy returns the pending requests the user has sent.
func (s *FriendshipStore) SentBy(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	q := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE sender_id=$1 AND status=$2
		ORDER BY created_at DESC, id DESC
	`
	return s.queryFriendships(ctx, q, userID, models.StatusActive)
}

// ReceivedBy returns the pending requests the user has received.
func (s *FriendshipStore) ReceivedBy(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	q := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE recipient_id=$1 AND status=$2
		ORDER BY created_at DESC, id DESC
	`
	return s.queryFriendships(ctx, q, userID, models.StatusActive)
}

// ConfirmedPeers returns the account on the other side of every confirmed
// record involving the user. The status filter applies to both directions of
// the pair predicate.
func (s *FriendshipStore) ConfirmedPeers(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	q := `
		SELECT u.id, u.username, u.created_at
		FROM users u
		JOIN friendships f
		  ON (f.sender_id = u.id AND f.recipient_id = $1)
		  OR (f.recipient_id = u.id AND f.sender_id = $1)
		WHERE f.status = $2
		ORDER BY u.username
	`
	rows, err := s.q.Query(ctx, q, userID, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ friendship.Store = (*FriendshipStore)(nil)
