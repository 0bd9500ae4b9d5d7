package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/common/validation"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"
	"user_mgmt/internal/platform/config"
	"user_mgmt/internal/platform/sessions"

	"github.com/google/uuid"
)

// SessionStore is the slice of the refresh-session store the auth
// service depends on.
type SessionStore interface {
	Register(ctx context.Context, jti, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	sessions SessionStore
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, sessions SessionStore) *AuthService {
	return &AuthService{userRepo: userRepo, roleRepo: roleRepo, sessions: sessions}
}

type RegisterRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	RoleID      *string `json:"role_id,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register validates all field formats plus the password composition
// rules before anything is hashed or persisted. Uniqueness is enforced
// by the store's unique indexes on write.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.Summary, error) {
	vErr := common.NewValidationError()

	if req.Username == "" {
		vErr.Add("username", "This field is required.")
	} else if msg := validation.Username(req.Username); msg != "" {
		vErr.Add("username", msg)
	}

	if req.Email == "" {
		vErr.Add("email", "This field is required.")
	} else if msg := validation.Email(req.Email); msg != "" {
		vErr.Add("email", msg)
	}

	if req.Password == "" {
		vErr.Add("password", "This field is required.")
	} else if msg := validation.Password(req.Password); msg != "" {
		vErr.Add("password", msg)
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		if msg := validation.Phone(*req.PhoneNumber); msg != "" {
			vErr.Add("phone_number", msg)
		}
	}

	status := model.StatusPending
	if req.Status != nil && *req.Status != "" {
		status = model.UserStatus(*req.Status)
		if !status.Valid() {
			vErr.Add("status", "Status must be one of: active, inactive, pending.")
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Status:         status,
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.RoleID != nil && *req.RoleID != "" {
		user.RoleID = req.RoleID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo surfaces unique violations as field-scoped validation errors.
		var cErr *common.ValidationError
		if errors.As(err, &cErr) {
			return nil, cErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// Unknown usernames and wrong passwords are indistinguishable in the
// response.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*security.TokenPair, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	roleName, err := s.roleName(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user.ID, roleName)
}

// Refresh rotates a refresh token: the presented token's session is
// revoked and a fresh pair is issued, so each refresh token is single-use.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*security.TokenPair, error) {
	if req.RefreshToken == "" {
		return nil, common.ErrBadRequest
	}

	claims, err := security.DecodeToken(req.RefreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	tokenType, err := security.GetTokenTypeFromClaims(claims)
	if err != nil || tokenType != security.TokenTypeRefresh {
		return nil, common.ErrUnauthorized
	}
	jti, err := security.GetJTIFromClaims(claims)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	userID, err := s.sessions.Lookup(ctx, jti)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up refresh session: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh session: %w", err)
	}

	roleName, err := s.roleName(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user.ID, roleName)
}

// Logout revokes the presented refresh token's session.
func (s *AuthService) Logout(ctx context.Context, req RefreshRequest) error {
	if req.RefreshToken == "" {
		return common.ErrBadRequest
	}

	claims, err := security.DecodeToken(req.RefreshToken)
	if err != nil {
		return common.ErrUnauthorized
	}
	tokenType, err := security.GetTokenTypeFromClaims(claims)
	if err != nil || tokenType != security.TokenTypeRefresh {
		return common.ErrUnauthorized
	}
	jti, err := security.GetJTIFromClaims(claims)
	if err != nil {
		return common.ErrUnauthorized
	}

	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return fmt.Errorf("failed to revoke refresh session: %w", err)
	}
	return nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, userID, roleName string) (*security.TokenPair, error) {
	pair, refreshJTI, err := security.GenerateTokenPair(userID, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	if err := s.sessions.Register(ctx, refreshJTI, userID, config.AppConfig.RefreshTokenExp); err != nil {
		return nil, fmt.Errorf("failed to register refresh session: %w", err)
	}
	return pair, nil
}

func (s *AuthService) roleName(ctx context.Context, roleID *string) (string, error) {
	if roleID == nil {
		return "", nil
	}
	role, err := s.roleRepo.FindByID(ctx, *roleID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find role: %w", err)
	}
	return role.Name, nil
}
