package friendship

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/friendsservice/friendsservice/internal/models"
)

// memStore is an in-memory Store used by the service tests. Records are kept
// in insertion order; "first match" scans newest-to-oldest, mirroring the
// created_at DESC, id DESC ordering of the real store.
type memStore struct {
	mu    sync.Mutex
	recs  []*models.Friendship
	users map[uuid.UUID]*models.User
}

func newMemStore(users ...*models.User) *memStore {
	m := &memStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memStore) Create(_ context.Context, f *models.Friendship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.recs = append(m.recs, &cp)
	return nil
}

func matchPair(f *models.Friendship, a, b uuid.UUID) bool {
	return (f.SenderID == a && f.RecipientID == b) || (f.SenderID == b && f.RecipientID == a)
}

func (m *memStore) FirstBetween(_ context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.recs) - 1; i >= 0; i-- {
		if matchPair(m.recs[i], a, b) {
			cp := *m.recs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FirstBetweenExcluding(_ context.Context, a, b uuid.UUID, exclude models.FriendshipStatus) (*models.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.recs) - 1; i >= 0; i-- {
		if matchPair(m.recs[i], a, b) && m.recs[i].Status != exclude {
			cp := *m.recs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ActiveByID(_ context.Context, id uuid.UUID) (*models.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.recs {
		if f.ID == id && f.Status == models.StatusActive {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) SetStatus(_ context.Context, f *models.Friendship, status models.FriendshipStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.recs {
		if rec.ID == f.ID {
			rec.Status = status
			f.Status = status
			return nil
		}
	}
	return nil
}

func (m *memStore) SentBy(_ context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Friendship
	for i := len(m.recs) - 1; i >= 0; i-- {
		f := m.recs[i]
		if f.SenderID == userID && f.Status == models.StatusActive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memStore) ReceivedBy(_ context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Friendship
	for i := len(m.recs) - 1; i >= 0; i-- {
		f := m.recs[i]
		if f.RecipientID == userID && f.Status == models.StatusActive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memStore) ConfirmedPeers(_ context.Context, userID uuid.UUID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, f := range m.recs {
		if f.Status == models.StatusConfirmed && f.Involves(userID) {
			if u, ok := m.users[f.CounterpartOf(userID)]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (m *memStore) Transact(_ context.Context, fn func(Store) error) error {
	return fn(m)
}

// countBetween reports how many records exist for the pair, any status.
func (m *memStore) countBetween(a, b uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.recs {
		if matchPair(f, a, b) {
			n++
		}
	}
	return n
}

// seed inserts a record directly, bypassing the services.
func (m *memStore) seed(sender, recipient uuid.UUID, status models.FriendshipStatus) *models.Friendship {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := &models.Friendship{
		ID:          uuid.New(),
		SenderID:    sender,
		RecipientID: recipient,
		Status:      status,
	}
	m.recs = append(m.recs, f)
	return f
}

// memDirectory resolves usernames from a fixed user set.
type memDirectory struct {
	users map[string]*models.User
}

func newMemDirectory(users ...*models.User) *memDirectory {
	d := &memDirectory{users: make(map[string]*models.User)}
	for _, u := range users {
		d.users[u.Username] = u
	}
	return d
}

func (d *memDirectory) Resolve(_ context.Context, username string) (*models.User, error) {
	u, ok := d.users[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *u
	return &cp, nil
}

func (d *memDirectory) Exists(_ context.Context, username string) (bool, error) {
	_, ok := d.users[username]
	return ok, nil
}

func newTestUser(username string) *models.User {
	return &models.User{ID: uuid.New(), Username: username}
}

var (
	_ Store            = (*memStore)(nil)
	_ AccountDirectory = (*memDirectory)(nil)
)
