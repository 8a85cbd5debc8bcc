package friendship

import (
	"context"
	"fmt"

	"github.com/friendsservice/friendsservice/internal/models"
)

// RemovalService terminates a friendship by moving its record to declined.
// Removal never deletes rows, so the pair can become friends again later
// through a fresh request.
type RemovalService struct {
	store       Store
	dir         AccountDirectory
	transitions *TransitionService
}

func NewRemovalService(store Store, dir AccountDirectory, transitions *TransitionService) *RemovalService {
	return &RemovalService{store: store, dir: dir, transitions: transitions}
}

// Remove unfriends targetUsername on behalf of actor. The record is declined
// whatever its prior status was; re-declining a declined record is allowed
// and harmless. Returns the record that was transitioned.
func (s *RemovalService) Remove(ctx context.Context, actor models.User, targetUsername string) (*models.Friendship, error) {
	if actor.Username == targetUsername {
		return nil, ErrNotFriends
	}

	target, err := s.dir.Resolve(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.FirstBetween(ctx, actor.ID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("pair lookup failed: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFriends
	}

	if err := s.transitions.Change(ctx, rec, models.StatusDeclined, actor.ID); err != nil {
		return nil, err
	}
	return rec, nil
}
