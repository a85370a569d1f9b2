package services_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"stature-backend/internal/events"
	"stature-backend/internal/imagen"
	"stature-backend/internal/models"
	"stature-backend/internal/storage"
	"stature-backend/internal/supabase"
)

// memStore is an in-memory stand-in for the Postgres store.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	orders map[uuid.UUID]*models.Order
	clock  time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*models.User{},
		orders: map[uuid.UUID]*models.Order{},
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) EnsureUser(_ context.Context, uid, email, displayName string) (*models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[uid]; ok {
		cp := *u
		return &cp, false, nil
	}
	role := models.RoleUser
	if len(m.users) == 0 {
		role = models.RoleAdmin
	}
	u := &models.User{UID: uid, Email: email, DisplayName: displayName, Role: role, CreatedAt: m.tick()}
	m.users[uid] = u
	cp := *u
	return &cp, true, nil
}

func (m *memStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) SetUserRole(_ context.Context, uid, role string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateOrderWithCredits(_ context.Context, order *models.Order) (*models.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.PaymentID == order.PaymentID {
			cp := *o
			return &cp, false, nil
		}
	}
	u, ok := m.users[order.UID]
	if !ok {
		return nil, false, supabase.ErrNotFound
	}
	stored := *order
	stored.CreatedAt = m.tick()
	m.orders[stored.ID] = &stored
	u.Credits += stored.Credits
	cp := stored
	return &cp, true, nil
}

func (m *memStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) listOrders(keep func(*models.Order) bool) []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListOrders(context.Context) ([]models.Order, error) {
	return m.listOrders(func(*models.Order) bool { return true }), nil
}

func (m *memStore) ListOrdersByUser(_ context.Context, uid string) ([]models.Order, error) {
	return m.listOrders(func(o *models.Order) bool { return o.UID == uid }), nil
}

func (m *memStore) CancelOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, supabase.ErrNotFound
	}
	if o.Status == models.OrderStatusCancelled {
		return nil, supabase.ErrConflict
	}
	o.Status = models.OrderStatusCancelled
	cp := *o
	return &cp, nil
}

type fakeIdentity struct {
	mu      sync.Mutex
	claims  map[string]string
	users    []models.IdentityUser
	listErr  error
	claimErr error
}

func (f *fakeIdentity) failClaims(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimErr = err
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{claims: map[string]string{}}
}

func (f *fakeIdentity) SetRoleClaims(uid, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return f.claimErr
	}
	f.claims[uid] = role
	return nil
}

func (f *fakeIdentity) ListIdentityUsers() ([]models.IdentityUser, error) {
	return f.users, f.listErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// fakeProvider fails every call whose 1-based sequence number is listed in failOn.
type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	failAll bool
	failOn  map[int]bool
	prompts []string
	text    string
	textErr error
}

func (f *fakeProvider) GenerateImage(_ context.Context, prompt string, _ []imagen.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.failAll || f.failOn[f.calls] {
		return "", errors.New("provider refused")
	}
	return "data:image/png;base64,aW1n", nil
}

func (f *fakeProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.text, f.textErr
}

func (f *fakeProvider) RetryWithBackoff(_ context.Context, fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memObjectStore) Put(_ context.Context, key string, data []byte, contentType string) (storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return storage.Object{Key: key, URL: "https://cdn.test/" + key, Size: int64(len(data))}, nil
}

func (s *memObjectStore) List(_ context.Context, prefix string) ([]storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.Object
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.Object{Key: k, URL: "https://cdn.test/" + k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memObjectStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}
