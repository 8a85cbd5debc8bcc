package friendship

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/models"
)

// ListingService exposes the three read-only projections over friendship
// records: sent requests, received requests and the confirmed friends list.
type ListingService struct {
	store Store
}

func NewListingService(store Store) *ListingService {
	return &ListingService{store: store}
}

// SentRequests returns the pending requests the user has sent.
func (s *ListingService) SentRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	out, err := s.store.SentBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent requests: %w", err)
	}
	return out, nil
}

// ReceivedRequests returns the pending requests the user has received.
func (s *ListingService) ReceivedRequests(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	out, err := s.store.ReceivedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received requests: %w", err)
	}
	return out, nil
}

// Friends returns the usernames on the other side of every confirmed record
// involving the user. The status filter applies to both directions of the
// pair match, not just one side of it.
func (s *ListingService) Friends(ctx context.Context, userID uuid.UUID) ([]string, error) {
	peers, err := s.store.ConfirmedPeers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	names := make([]string, 0, len(peers))
	for _, p := range peers {
		names = append(names, p.Username)
	}
	return names, nil
}
