package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendshipStatus is the lifecycle state of a friendship record.
type FriendshipStatus string

const (
	// StatusActive is a pending, unconfirmed friend request.
	StatusActive FriendshipStatus = "active"
	// StatusConfirmed means both sides requested each other or the
	// recipient accepted the request.
	StatusConfirmed FriendshipStatus = "confirmed"
	// StatusDeclined is a declined or removed friendship. A declined pair
	// may start over with a fresh record.
	StatusDeclined FriendshipStatus = "declined"
	// StatusDeleted permanently blocks the pair. No service transitions a
	// record into this state; it exists only by direct administrative write.
	StatusDeleted FriendshipStatus = "deleted"
)

// Known reports whether s is one of the defined statuses.
func (s FriendshipStatus) Known() bool {
	switch s {
	case StatusActive, StatusConfirmed, StatusDeclined, StatusDeleted:
		return true
	}
	return false
}

// Friendship is a directed friend-request record between two accounts.
// The record is directional at creation (sender requested recipient), but
// all pair lookups treat it symmetrically. Records are never deleted;
// removal transitions the status to declined and a pair can accumulate
// multiple historical rows.
type Friendship struct {
	ID          uuid.UUID        `json:"id"`
	SenderID    uuid.UUID        `json:"sender_id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Involves reports whether the account is one of the record's two sides.
func (f *Friendship) Involves(id uuid.UUID) bool {
	return f.SenderID == id || f.RecipientID == id
}

// CounterpartOf returns the other side of the record relative to id.
func (f *Friendship) CounterpartOf(id uuid.UUID) uuid.UUID {
	if f.SenderID == id {
		return f.RecipientID
	}
	return f.SenderID
}
