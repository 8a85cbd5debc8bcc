package friendship

import (
	"context"
	"fmt"

	"github.com/friendsservice/friendsservice/internal/models"
)

// Relation classifies the state between two accounts.
type Relation int

const (
	// RelationNone means no non-declined record exists between the pair.
	RelationNone Relation = iota
	// RelationFriends means the pair has a confirmed record.
	RelationFriends
	// RelationPendingIncoming means the target sent the actor a request.
	RelationPendingIncoming
	// RelationPendingOutgoing means the actor sent the target a request.
	RelationPendingOutgoing
)

// RelationStatus is the query outcome: a tag plus a presentable message.
// Record is nil for RelationNone.
type RelationStatus struct {
	Relation Relation
	Message  string
	Record   *models.Friendship
}

// QueryService reports the relationship between the acting user and a target
// username.
type QueryService struct {
	store Store
	dir   AccountDirectory
}

func NewQueryService(store Store, dir AccountDirectory) *QueryService {
	return &QueryService{store: store, dir: dir}
}

// Status classifies the relationship between actor and targetUsername.
// Declined records are invisible here: a removed friendship reads as no
// relationship. An unresolvable username fails with ErrAccountNotFound; the
// presentation layer conventionally renders that the same as RelationNone.
func (s *QueryService) Status(ctx context.Context, actor models.User, targetUsername string) (RelationStatus, error) {
	target, err := s.dir.Resolve(ctx, targetUsername)
	if err != nil {
		return RelationStatus{}, err
	}

	rec, err := s.store.FirstBetweenExcluding(ctx, actor.ID, target.ID, models.StatusDeclined)
	if err != nil {
		return RelationStatus{}, fmt.Errorf("pair lookup failed: %w", err)
	}

	switch {
	case rec == nil:
		return RelationStatus{
			Relation: RelationNone,
			Message:  fmt.Sprintf("Not found active friendship with %s", targetUsername),
		}, nil
	case rec.Status == models.StatusConfirmed:
		return RelationStatus{
			Relation: RelationFriends,
			Message:  "In friends list",
			Record:   rec,
		}, nil
	case rec.SenderID == target.ID:
		return RelationStatus{
			Relation: RelationPendingIncoming,
			Message:  fmt.Sprintf("You have active friends request from %s", targetUsername),
			Record:   rec,
		}, nil
	default:
		return RelationStatus{
			Relation: RelationPendingOutgoing,
			Message:  fmt.Sprintf("You have active friends request to %s", targetUsername),
			Record:   rec,
		}, nil
	}
}
