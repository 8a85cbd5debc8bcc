package friendship

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/models"
)

// RequestService creates friend requests and auto-confirms reciprocal ones.
type RequestService struct {
	store Store
	dir   AccountDirectory
}

func NewRequestService(store Store, dir AccountDirectory) *RequestService {
	return &RequestService{store: store, dir: dir}
}

// Request sends a friend request from actor to targetUsername.
//
// The outcome depends on the first existing record between the pair:
//
//	none or declined   -> new active record (declined history is kept)
//	deleted            -> ErrPermanentlyBlocked
//	confirmed          -> no-op, already friends
//	active, reciprocal -> the existing record becomes confirmed
//	active, duplicate  -> ErrRequestAlreadyExists
//
// The reciprocal and duplicate cases differ only by which side of the stored
// record the actor occupies. The whole read-then-write sequence runs inside
// Transact so two concurrent requests for the same pair cannot both observe
// "no record".
func (s *RequestService) Request(ctx context.Context, actor models.User, targetUsername string) (*models.Friendship, error) {
	if actor.Username == targetUsername {
		return nil, ErrSelfRequest
	}

	target, err := s.dir.Resolve(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	var out *models.Friendship
	err = s.store.Transact(ctx, func(tx Store) error {
		existing, err := tx.FirstBetween(ctx, actor.ID, target.ID)
		if err != nil {
			return fmt.Errorf("pair lookup failed: %w", err)
		}

		switch {
		case existing == nil, existing != nil && existing.Status == models.StatusDeclined:
			f := &models.Friendship{
				ID:          uuid.New(),
				SenderID:    actor.ID,
				RecipientID: target.ID,
				Status:      models.StatusActive,
				CreatedAt:   time.Now().UTC(),
			}
			if err := tx.Create(ctx, f); err != nil {
				return fmt.Errorf("failed to create friendship request: %w", err)
			}
			out = f
			return nil

		case existing.Status == models.StatusDeleted:
			return ErrPermanentlyBlocked

		case existing.Status == models.StatusConfirmed:
			// Already friends; repeat requests are a no-op.
			out = existing
			return nil

		case existing.Status == models.StatusActive && existing.RecipientID == actor.ID:
			// The other party already requested the actor: mutual confirmation.
			if err := tx.SetStatus(ctx, existing, models.StatusConfirmed); err != nil {
				return fmt.Errorf("failed to confirm friendship: %w", err)
			}
			out = existing
			return nil

		case existing.Status == models.StatusActive:
			return ErrRequestAlreadyExists

		default:
			return fmt.Errorf("friendship %s has unexpected status %q", existing.ID, existing.Status)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
