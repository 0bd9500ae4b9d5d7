package handler

import (
	"context"
	"net/http"
	"testing"
	"user_mgmt/internal/app/service"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/validation"
	"user_mgmt/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserTestRouter(userRepo *mockUserRepo) chi.Router {
	userService := service.NewUserService(userRepo)
	r := chi.NewRouter()
	NewUserHandler(userService).RegisterRoutes(r)
	return r
}

func sampleUsers() []model.User {
	return []model.User{
		{ID: "u-1", Username: "alice", Email: "alice@example.com", HashedPassword: "$2a$10$hash", Status: model.StatusActive},
		{ID: "u-2", Username: "malice", Email: "malice@example.com", HashedPassword: "$2a$10$hash", Status: model.StatusPending},
	}
}

func TestListUsersEndpoint(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(ctx context.Context, searchTerm string) ([]model.User, error) {
			assert.Empty(t, searchTerm)
			return sampleUsers(), nil
		},
	}
	router := newUserTestRouter(userRepo)

	w := doRequest(router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []model.Summary
	decodeBody(t, w, &summaries)
	assert.Len(t, summaries, 2)
	assert.NotContains(t, w.Body.String(), "$2a$10$hash")
}

func TestSearchUsersEndpoint(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(ctx context.Context, searchTerm string) ([]model.User, error) {
			assert.Equal(t, "ali", searchTerm)
			return sampleUsers(), nil
		},
	}
	router := newUserTestRouter(userRepo)

	w := doRequest(router, http.MethodPost, "/", map[string]string{"search": "ali"})
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []model.Summary
	decodeBody(t, w, &summaries)
	assert.Len(t, summaries, 2)
}

func TestGetUserEndpoint(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			if id != "u-1" {
				return nil, common.ErrNotFound
			}
			user := sampleUsers()[0]
			return &user, nil
		},
	}
	router := newUserTestRouter(userRepo)

	w := doRequest(router, http.MethodGet, "/u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary model.Summary
	decodeBody(t, w, &summary)
	assert.Equal(t, "alice", summary.Username)

	w = doRequest(router, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserEndpoint(t *testing.T) {
	var updated *model.User
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			user := sampleUsers()[0]
			return &user, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}
	router := newUserTestRouter(userRepo)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		updated = nil
		w := doRequest(router, method, "/u-1", map[string]string{"email": "new@example.com"})
		require.Equal(t, http.StatusOK, w.Code, method)
		require.NotNil(t, updated, method)
		assert.Equal(t, "new@example.com", updated.Email, method)
		assert.Equal(t, "alice", updated.Username, method)
	}
}

func TestUpdateUserEndpointInvalidPhone(t *testing.T) {
	persisted := false
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			user := sampleUsers()[0]
			return &user, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			persisted = true
			return nil
		},
	}
	router := newUserTestRouter(userRepo)

	w := doRequest(router, http.MethodPatch, "/u-1", map[string]string{"phone_number": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, persisted)

	var resp common.ValidationErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, validation.MsgPhoneInvalid, resp.Errors["phone_number"])
}

func TestUpdateUserEndpointNotFound(t *testing.T) {
	router := newUserTestRouter(&mockUserRepo{})

	w := doRequest(router, http.MethodPut, "/missing", map[string]string{"email": "new@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserEndpointSoftDeletes(t *testing.T) {
	var updated *model.User
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			user := sampleUsers()[0]
			return &user, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}
	router := newUserTestRouter(userRepo)

	w := doRequest(router, http.MethodDelete, "/u-1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, updated)
	assert.Equal(t, model.StatusInactive, updated.Status)
}

func TestDeleteUserEndpointNotFound(t *testing.T) {
	router := newUserTestRouter(&mockUserRepo{})

	w := doRequest(router, http.MethodDelete, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInternalFaultIsGeneric(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(ctx context.Context, searchTerm string) ([]model.User, error) {
			return nil, common.Errorf("pq: connection refused to db at 10.0.0.5")
		},
	}
	router := newUserTestRouter(userRepo)

	w := doRequest(router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "internal server error")
}
