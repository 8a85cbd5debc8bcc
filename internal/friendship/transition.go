package friendship

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/models"
)

// TransitionService is a thin status mutator. It is used directly for
// accept/decline and indirectly by RemovalService. The actor is a required
// argument on both entry points; the only guard it feeds is that a sender
// cannot confirm their own outgoing request.
type TransitionService struct {
	store Store
}

func NewTransitionService(store Store) *TransitionService {
	return &TransitionService{store: store}
}

// ChangeByID resolves a pending request by id and moves it to status.
// The lookup is restricted to active records: confirming, declining or
// re-declining an already settled id fails with ErrRequestNotFound.
func (s *TransitionService) ChangeByID(ctx context.Context, id uuid.UUID, status models.FriendshipStatus, actor uuid.UUID) (*models.Friendship, error) {
	var out *models.Friendship
	err := s.store.Transact(ctx, func(tx Store) error {
		f, err := tx.ActiveByID(ctx, id)
		if err != nil {
			return fmt.Errorf("request lookup failed: %w", err)
		}
		if f == nil {
			return ErrRequestNotFound
		}
		if err := applyTransition(ctx, tx, f, status, actor); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Change moves an already-resolved record to status.
func (s *TransitionService) Change(ctx context.Context, f *models.Friendship, status models.FriendshipStatus, actor uuid.UUID) error {
	return applyTransition(ctx, s.store, f, status, actor)
}

func applyTransition(ctx context.Context, st Store, f *models.Friendship, status models.FriendshipStatus, actor uuid.UUID) error {
	if !status.Known() {
		return fmt.Errorf("unknown target status %q", status)
	}
	if status == models.StatusConfirmed && f.SenderID == actor {
		return ErrSelfAccept
	}
	if err := st.SetStatus(ctx, f, status); err != nil {
		return fmt.Errorf("failed to change friendship status: %w", err)
	}
	return nil
}
