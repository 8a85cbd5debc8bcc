// internal/handlers/friend.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/cache"
	"github.com/friendsservice/friendsservice/internal/friendship"
	"github.com/friendsservice/friendsservice/internal/models"
)

// AddFriendHandler sends a friend request to another user by username,
// auto-confirming if the target had already requested the caller.
//
// Request payload: { "username": "target" }
func (s *Server) AddFriendHandler(w http.ResponseWriter, r *http.Request) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	rec, err := s.Requests.Request(r.Context(), *actor, req.Username)
	switch {
	case errors.Is(err, friendship.ErrSelfRequest), errors.Is(err, friendship.ErrAccountNotFound):
		http.Error(w, "user cannot be friend", http.StatusBadRequest)
		return
	case errors.Is(err, friendship.ErrRequestAlreadyExists):
		http.Error(w, "friendship request already sent", http.StatusBadRequest)
		return
	case errors.Is(err, friendship.ErrPermanentlyBlocked):
		http.Error(w, "friendship is permanently blocked", http.StatusForbidden)
		return
	case err != nil:
		s.Log.Errorf("failed to create friend request: %v", err)
		http.Error(w, "failed to create friend request", http.StatusInternalServerError)
		return
	}

	s.invalidatePair(r, rec)
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("friend request sent"))
}

// AcceptFriendHandler confirms a pending request by record id.
//
// Request payload: { "friendship_id": "some-uuid-string" }
func (s *Server) AcceptFriendHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionHandler(w, r, models.StatusConfirmed, "friend request accepted")
}

// DeclineFriendHandler declines a pending request by record id.
//
// Request payload: { "friendship_id": "some-uuid-string" }
func (s *Server) DeclineFriendHandler(w http.ResponseWriter, r *http.Request) {
	s.transitionHandler(w, r, models.StatusDeclined, "friend request declined")
}

func (s *Server) transitionHandler(w http.ResponseWriter, r *http.Request, status models.FriendshipStatus, okBody string) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	var req struct {
		FriendshipID string `json:"friendship_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(req.FriendshipID)
	if err != nil {
		http.Error(w, "invalid friendship_id", http.StatusBadRequest)
		return
	}

	rec, err := s.Transitions.ChangeByID(r.Context(), id, status, actor.ID)
	switch {
	case errors.Is(err, friendship.ErrRequestNotFound):
		http.Error(w, "friendship request not found", http.StatusNotFound)
		return
	case errors.Is(err, friendship.ErrSelfAccept):
		http.Error(w, "cannot accept your own friendship request", http.StatusForbidden)
		return
	case err != nil:
		s.Log.Errorf("failed to change friendship status: %v", err)
		http.Error(w, "failed to change friendship status", http.StatusInternalServerError)
		return
	}

	s.invalidatePair(r, rec)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(okBody))
}

// RemoveFriendHandler removes (unfriends) a user by username. The record is
// declined, not deleted.
//
// Request payload: { "username": "target" }
func (s *Server) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	rec, err := s.Removals.Remove(r.Context(), *actor, req.Username)
	switch {
	case errors.Is(err, friendship.ErrNotFriends), errors.Is(err, friendship.ErrAccountNotFound):
		http.Error(w, "user is not in the friends list", http.StatusNotFound)
		return
	case err != nil:
		s.Log.Errorf("failed to remove friend: %v", err)
		http.Error(w, "failed to remove friend", http.StatusInternalServerError)
		return
	}

	s.invalidatePair(r, rec)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("friend removed"))
}

// FriendshipStatusHandler reports the relationship with ?username=. Always
// 200 with a message; an unknown username reads as no relationship.
func (s *Server) FriendshipStatusHandler(w http.ResponseWriter, r *http.Request) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	target := r.URL.Query().Get("username")
	if target == "" {
		http.Error(w, "username query parameter is required", http.StatusBadRequest)
		return
	}

	st, err := s.Queries.Status(r.Context(), *actor, target)
	if errors.Is(err, friendship.ErrAccountNotFound) {
		st = friendship.RelationStatus{
			Relation: friendship.RelationNone,
			Message:  "Not found active friendship with " + target,
		}
	} else if err != nil {
		s.Log.Errorf("failed to query friendship status: %v", err)
		http.Error(w, "failed to query friendship status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": st.Message})
}

// ListSentHandler returns the caller's pending outgoing requests.
func (s *Server) ListSentHandler(w http.ResponseWriter, r *http.Request) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	recs, err := s.Listings.SentRequests(r.Context(), actor.ID)
	if err != nil {
		s.Log.Errorf("failed to list sent requests: %v", err)
		http.Error(w, "failed to list sent requests", http.StatusInternalServerError)
		return
	}
	writeFriendships(w, recs)
}

// ListReceivedHandler returns the caller's pending incoming requests.
func (s *Server) ListReceivedHandler(w http.ResponseWriter, r *http.Request) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	recs, err := s.Listings.ReceivedRequests(r.Context(), actor.ID)
	if err != nil {
		s.Log.Errorf("failed to list received requests: %v", err)
		http.Error(w, "failed to list received requests", http.StatusInternalServerError)
		return
	}
	writeFriendships(w, recs)
}

// ListFriendsHandler returns the usernames of the caller's confirmed friends,
// served from the Redis cache when possible.
func (s *Server) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	actor := s.requireUser(w, r)
	if actor == nil {
		return
	}

	names, ok := cache.GetFriendsList(r.Context(), actor.ID)
	if !ok {
		var err error
		names, err = s.Listings.Friends(r.Context(), actor.ID)
		if err != nil {
			s.Log.Errorf("failed to list friends: %v", err)
			http.Error(w, "failed to list friends", http.StatusInternalServerError)
			return
		}
		cache.SetFriendsList(r.Context(), actor.ID, names)
	}

	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

func writeFriendships(w http.ResponseWriter, recs []models.Friendship) {
	if recs == nil {
		recs = []models.Friendship{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}

// invalidatePair drops both parties' cached friends lists after a mutation.
func (s *Server) invalidatePair(r *http.Request, rec *models.Friendship) {
	if rec == nil {
		return
	}
	cache.InvalidateFriendsList(r.Context(), rec.SenderID, rec.RecipientID)
}
