// internal/handlers/friend_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friendsservice/friendsservice/internal/auth"
	"github.com/friendsservice/friendsservice/internal/friendship"
	"github.com/friendsservice/friendsservice/internal/models"
)

// fakeBackend implements friendship.Store and AccountService in memory so
// the HTTP flow can run without postgres.
type fakeBackend struct {
	mu    sync.Mutex
	recs  []*models.Friendship
	users map[uuid.UUID]*models.User
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: make(map[uuid.UUID]*models.User)}
}

func (b *fakeBackend) Create(_ context.Context, f *models.Friendship) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := *f
	b.recs = append(b.recs, &cp)
	return nil
}

func pairMatch(f *models.Friendship, a, c uuid.UUID) bool {
	return (f.SenderID == a && f.RecipientID == c) || (f.SenderID == c && f.RecipientID == a)
}

func (b *fakeBackend) FirstBetween(_ context.Context, a, c uuid.UUID) (*models.Friendship, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.recs) - 1; i >= 0; i-- {
		if pairMatch(b.recs[i], a, c) {
			cp := *b.recs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (b *fakeBackend) FirstBetweenExcluding(_ context.Context, a, c uuid.UUID, exclude models.FriendshipStatus) (*models.Friendship, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.recs) - 1; i >= 0; i-- {
		if pairMatch(b.recs[i], a, c) && b.recs[i].Status != exclude {
			cp := *b.recs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (b *fakeBackend) ActiveByID(_ context.Context, id uuid.UUID) (*models.Friendship, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.recs {
		if f.ID == id && f.Status == models.StatusActive {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (b *fakeBackend) SetStatus(_ context.Context, f *models.Friendship, status models.FriendshipStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range b.recs {
		if rec.ID == f.ID {
			rec.Status = status
			f.Status = status
			return nil
		}
	}
	return fmt.Errorf("friendship %s not found", f.ID)
}

func (b *fakeBackend) SentBy(_ context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Friendship
	for _, f := range b.recs {
		if f.SenderID == userID && f.Status == models.StatusActive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (b *fakeBackend) ReceivedBy(_ context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Friendship
	for _, f := range b.recs {
		if f.RecipientID == userID && f.Status == models.StatusActive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (b *fakeBackend) ConfirmedPeers(_ context.Context, userID uuid.UUID) ([]models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.User
	for _, f := range b.recs {
		if f.Status == models.StatusConfirmed && f.Involves(userID) {
			if u, ok := b.users[f.CounterpartOf(userID)]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (b *fakeBackend) Transact(_ context.Context, fn func(friendship.Store) error) error {
	return fn(b)
}

func (b *fakeBackend) Resolve(_ context.Context, username string) (*models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, friendship.ErrAccountNotFound
}

func (b *fakeBackend) Exists(ctx context.Context, username string) (bool, error) {
	_, err := b.Resolve(ctx, username)
	return err == nil, nil
}

func (b *fakeBackend) ByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, friendship.ErrAccountNotFound
}

func (b *fakeBackend) CreateAccount(_ context.Context, user *models.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	b.users[user.ID] = &cp
	return nil
}

func (b *fakeBackend) Authenticate(ctx context.Context, username, password string) (string, error) {
	u, err := b.Resolve(ctx, username)
	if err != nil {
		return "", err
	}
	if u.Password != password {
		return "", fmt.Errorf("invalid credentials")
	}
	return auth.CreateJWT(u.ID.String())
}

// accountAdapter renames CreateAccount to the Create the interface wants
// without clashing with the store's record Create.
type accountAdapter struct{ *fakeBackend }

func (a accountAdapter) Create(ctx context.Context, user *models.User) error {
	return a.CreateAccount(ctx, user)
}

func newTestServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	auth.Init()
	backend := newFakeBackend()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewServer(backend, accountAdapter{backend}, logger), backend
}

func createTestUser(t *testing.T, b *fakeBackend, username string) (*models.User, string) {
	t.Helper()
	u := &models.User{Username: username}
	require.NoError(t, accountAdapter{b}.Create(context.Background(), u))
	token, err := auth.CreateJWT(u.ID.String())
	require.NoError(t, err)
	return u, token
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestFriendFlow walks request, accept, list, status and removal through the
// HTTP surface.
func TestFriendFlow(t *testing.T) {
	srv, backend := newTestServer(t)
	h := srv.Routes()

	_, aliceToken := createTestUser(t, backend, "alice")
	bob, bobToken := createTestUser(t, backend, "bob")

	// alice sends a friend request to bob
	w := doJSON(t, h, "POST", "/friends/add", aliceToken, `{"username":"bob"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// bob sees it in received requests
	w = doJSON(t, h, "GET", "/friends/received", bobToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var received []models.Friendship
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &received))
	require.Len(t, received, 1)
	assert.Equal(t, bob.ID, received[0].RecipientID)

	// bob accepts
	accBody := fmt.Sprintf(`{"friendship_id":%q}`, received[0].ID.String())
	w = doJSON(t, h, "POST", "/friends/accept", bobToken, accBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// bob's friends list now contains alice
	w = doJSON(t, h, "GET", "/friends/list", bobToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"alice"}, names)

	// alice sees the confirmed relationship
	w = doJSON(t, h, "GET", "/friends/status?username=bob", aliceToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "In friends list", status["message"])

	// alice unfriends bob
	w = doJSON(t, h, "POST", "/friends/remove", aliceToken, `{"username":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the relationship reads as gone from bob's side
	w = doJSON(t, h, "GET", "/friends/status?username=alice", bobToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "Not found active friendship with alice", status["message"])
}

func TestAddFriendRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	w := doJSON(t, h, "POST", "/friends/add", "", `{"username":"bob"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAcceptOwnRequestRejected(t *testing.T) {
	srv, backend := newTestServer(t)
	h := srv.Routes()

	_, aliceToken := createTestUser(t, backend, "alice")
	createTestUser(t, backend, "bob")

	w := doJSON(t, h, "POST", "/friends/add", aliceToken, `{"username":"bob"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, "GET", "/friends/sent", aliceToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var sent []models.Friendship
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	require.Len(t, sent, 1)

	// the sender cannot confirm their own outgoing request
	accBody := fmt.Sprintf(`{"friendship_id":%q}`, sent[0].ID.String())
	w = doJSON(t, h, "POST", "/friends/accept", aliceToken, accBody)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddUnknownUser(t *testing.T) {
	srv, backend := newTestServer(t)
	h := srv.Routes()

	_, aliceToken := createTestUser(t, backend, "alice")

	w := doJSON(t, h, "POST", "/friends/add", aliceToken, `{"username":"spy_user"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user cannot be friend")
}
