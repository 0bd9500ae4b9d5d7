package service

import (
	"context"
	"errors"
	"fmt"
	"user_mgmt/internal/common"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/common/validation"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateUserRequest struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	RoleID      *string `json:"role_id,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// List returns all account summaries, filtered to usernames containing
// searchTerm (case-insensitive) when it is non-empty.
func (s *UserService) List(ctx context.Context, searchTerm string) ([]model.Summary, error) {
	users, err := s.userRepo.List(ctx, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	summaries := make([]model.Summary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.Summary, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	summary := user.Summary()
	return &summary, nil
}

// Update applies only the provided fields; every changed field is
// re-validated and nothing is written unless all of them pass.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*model.Summary, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	vErr := common.NewValidationError()

	if req.Username != nil {
		if msg := validation.Username(*req.Username); msg != "" {
			vErr.Add("username", msg)
		} else {
			user.Username = *req.Username
		}
	}
	if req.Email != nil {
		if msg := validation.Email(*req.Email); msg != "" {
			vErr.Add("email", msg)
		} else {
			user.Email = *req.Email
		}
	}
	if req.PhoneNumber != nil {
		if *req.PhoneNumber == "" {
			user.PhoneNumber = nil
		} else if msg := validation.Phone(*req.PhoneNumber); msg != "" {
			vErr.Add("phone_number", msg)
		} else {
			user.PhoneNumber = req.PhoneNumber
		}
	}
	if req.RoleID != nil {
		if *req.RoleID == "" {
			user.RoleID = nil
		} else {
			user.RoleID = req.RoleID
		}
	}
	if req.Status != nil {
		status := model.UserStatus(*req.Status)
		if !status.Valid() {
			vErr.Add("status", "Status must be one of: active, inactive, pending.")
		} else {
			user.Status = status
		}
	}
	if req.Password != nil {
		if msg := validation.Password(*req.Password); msg != "" {
			vErr.Add("password", msg)
		} else {
			hashedPassword, err := security.HashPassword(*req.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			user.HashedPassword = hashedPassword
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		var cErr *common.ValidationError
		if errors.As(err, &cErr) {
			return nil, cErr
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// SoftDelete marks the account inactive; the record remains queryable.
func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	user.Status = model.StatusInactive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	return nil
}
