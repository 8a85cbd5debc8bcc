// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/friendsservice/friendsservice/internal/auth"
	"github.com/friendsservice/friendsservice/internal/models"
)

// minPasswordLength is the portable remnant of the original's password
// validators.
const minPasswordLength = 8

// CreateUserHandler registers a new account.
//
// Request payload: { "username": ..., "password": ... }
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPasswordLength {
		http.Error(w, "password is too short", http.StatusBadRequest)
		return
	}

	taken, err := s.Accounts.Exists(r.Context(), req.Username)
	if err != nil {
		s.Log.Errorf("failed to check username: %v", err)
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}
	if taken {
		http.Error(w, "username already exists", http.StatusConflict)
		return
	}

	user := models.User{
		Username: req.Username,
		Password: req.Password,
	}

	if err := s.Accounts.Create(r.Context(), &user); err != nil {
		// The existence pre-check races with concurrent registration; the
		// unique constraint is the authority.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			http.Error(w, "username already exists", http.StatusConflict)
			return
		}
		s.Log.Errorf("failed to create user: %v", err)
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// LoginHandler verifies credentials and issues a session token, both in the
// response body and as an HttpOnly auth_token cookie.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	token, err := s.Accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.Log.Infof("failed to authenticate user %q: %v", req.Username, err)
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(loginResponse{Token: token}); err != nil {
		http.Error(w, "failed to write response", http.StatusInternalServerError)
		return
	}
}
