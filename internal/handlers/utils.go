package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/auth"
	"github.com/friendsservice/friendsservice/internal/models"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requireUser authenticates the request via the auth_token cookie and loads
// the acting account. It writes the error response itself and returns nil
// when the caller should bail out.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	cookieHeader := r.Header.Get("Cookie")
	if !strings.Contains(cookieHeader, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return nil
	}
	jwtToken := extractCookieToken(cookieHeader, "auth_token")

	accountIDStr, err := auth.AuthenticateJWT(jwtToken)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return nil
	}
	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		http.Error(w, "invalid account id in token", http.StatusBadRequest)
		return nil
	}

	user, err := s.Accounts.ByID(r.Context(), accountID)
	if err != nil {
		http.Error(w, "account not found", http.StatusForbidden)
		return nil
	}
	return user
}
