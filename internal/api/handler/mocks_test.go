package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/platform/config"
	"user_mgmt/internal/platform/sessions"

	"github.com/go-chi/chi/v5"
)

// ---- mock implementations ----

type mockUserRepo struct {
	createFn         func(ctx context.Context, user *model.User) error
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	listFn           func(ctx context.Context, searchTerm string) ([]model.User, error)
	updateFn         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, common.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context, searchTerm string) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, searchTerm)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

type mockRoleRepo struct {
	createFn     func(ctx context.Context, role *model.Role) error
	findByIDFn   func(ctx context.Context, id string) (*model.Role, error)
	findBySlugFn func(ctx context.Context, slug string) (*model.Role, error)
	listFn       func(ctx context.Context) ([]model.Role, error)
}

func (m *mockRoleRepo) Create(ctx context.Context, role *model.Role) error {
	if m.createFn != nil {
		return m.createFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) FindByID(ctx context.Context, id string) (*model.Role, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockRoleRepo) FindBySlug(ctx context.Context, slug string) (*model.Role, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, common.ErrNotFound
}

func (m *mockRoleRepo) List(ctx context.Context) ([]model.Role, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]string)}
}

func (s *memorySessionStore) Register(ctx context.Context, jti, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[jti] = userID
	return nil
}

func (s *memorySessionStore) Lookup(ctx context.Context, jti string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[jti]
	if !ok {
		return "", sessions.ErrSessionNotFound
	}
	return userID, nil
}

func (s *memorySessionStore) Revoke(ctx context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, jti)
	return nil
}

// ---- helpers ----

func initTestConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:          []byte("test-secret"),
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 168 * time.Hour,
	}
	security.InitJWT()
}

func doRequest(router chi.Router, method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
