// Package friendship holds the friendship state machine: the rules for
// creating, auto-confirming, transitioning and querying friend-request
// records. It talks to persistence only through the Store and
// AccountDirectory contracts below.
package friendship

import (
	"context"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/models"
)

// Store persists friendship records. There is deliberately no uniqueness
// constraint on the unordered pair: a declined pair grows a fresh row on
// re-request, so "first match" lookups must be deterministic. Implementations
// order by created_at descending with id descending as tie-break (most recent
// record wins) and return (nil, nil) when nothing matches.
type Store interface {
	// Create inserts a new record.
	Create(ctx context.Context, f *models.Friendship) error

	// FirstBetween returns the first record between the two accounts in
	// either direction, any status.
	FirstBetween(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error)

	// FirstBetweenExcluding is FirstBetween skipping records in the given
	// status.
	FirstBetweenExcluding(ctx context.Context, a, b uuid.UUID, exclude models.FriendshipStatus) (*models.Friendship, error)

	// ActiveByID returns the record with the given id only if it is still
	// pending (status active).
	ActiveByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error)

	// SetStatus persists a status change and updates f in place.
	SetStatus(ctx context.Context, f *models.Friendship, status models.FriendshipStatus) error

	// SentBy returns the pending requests the account has sent.
	SentBy(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)

	// ReceivedBy returns the pending requests the account has received.
	ReceivedBy(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)

	// ConfirmedPeers returns the counterpart account of every confirmed
	// record involving the user.
	ConfirmedPeers(ctx context.Context, userID uuid.UUID) ([]models.User, error)

	// Transact runs fn as one unit of work. Implementations backed by a
	// database run fn inside a serializable transaction and may re-run it
	// on serialization conflicts, so fn must be safe to retry.
	Transact(ctx context.Context, fn func(Store) error) error
}

// AccountDirectory resolves usernames to account identities. The friendship
// core never creates or mutates accounts.
type AccountDirectory interface {
	// Resolve returns the account for a username, or ErrAccountNotFound.
	Resolve(ctx context.Context, username string) (*models.User, error)

	// Exists reports whether a username is taken.
	Exists(ctx context.Context, username string) (bool, error)
}
