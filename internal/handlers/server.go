// internal/handlers/server.go
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/friendsservice/friendsservice/internal/friendship"
	"github.com/friendsservice/friendsservice/internal/middleware"
	"github.com/friendsservice/friendsservice/internal/models"
)

// AccountService is the account surface the handlers need: the directory
// contract consumed by the friendship core plus registration, login and
// id lookup for the authenticated session.
type AccountService interface {
	friendship.AccountDirectory
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// Server holds the friendship services and maps their outcomes onto HTTP
// responses. Each route calls exactly one service.
type Server struct {
	Accounts    AccountService
	Requests    *friendship.RequestService
	Transitions *friendship.TransitionService
	Queries     *friendship.QueryService
	Removals    *friendship.RemovalService
	Listings    *friendship.ListingService
	Log         *logrus.Logger
}

// NewServer wires the five friendship services over the given store and
// account service.
func NewServer(store friendship.Store, accounts AccountService, logger *logrus.Logger) *Server {
	transitions := friendship.NewTransitionService(store)
	return &Server{
		Accounts:    accounts,
		Requests:    friendship.NewRequestService(store, accounts),
		Transitions: transitions,
		Queries:     friendship.NewQueryService(store, accounts),
		Removals:    friendship.NewRemovalService(store, accounts, transitions),
		Listings:    friendship.NewListingService(store),
		Log:         logger,
	}
}

// Routes returns the service mux with request logging on every route.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", s.CreateUserHandler)
	mux.HandleFunc("/user/login", s.LoginHandler)

	// friend endpoints
	mux.HandleFunc("/friends/add", s.AddFriendHandler)
	mux.HandleFunc("/friends/accept", s.AcceptFriendHandler)
	mux.HandleFunc("/friends/decline", s.DeclineFriendHandler)
	mux.HandleFunc("/friends/remove", s.RemoveFriendHandler)
	mux.HandleFunc("/friends/status", s.FriendshipStatusHandler)
	mux.HandleFunc("/friends/sent", s.ListSentHandler)
	mux.HandleFunc("/friends/received", s.ListReceivedHandler)
	mux.HandleFunc("/friends/list", s.ListFriendsHandler)

	return middleware.LogMiddleware(s.Log)(mux)
}
