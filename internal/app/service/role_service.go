package service

import (
	"context"
	"errors"
	"fmt"
	"user_mgmt/internal/common"
	"user_mgmt/internal/domain/model"
	"user_mgmt/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type RoleService struct {
	roleRepo repository.RoleRepository
}

func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

type CreateRoleRequest struct {
	Name string `json:"name"`
}

func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*model.Role, error) {
	if req.Name == "" {
		return nil, common.FieldError("name", "This field is required.")
	}
	if len(req.Name) > 100 {
		return nil, common.FieldError("name", "Role name must be 100 characters or fewer.")
	}

	role := &model.Role{
		ID:   uuid.NewString(),
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		var cErr *common.ValidationError
		if errors.As(err, &cErr) {
			return nil, cErr
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

func (s *RoleService) GetBySlug(ctx context.Context, roleSlug string) (*model.Role, error) {
	role, err := s.roleRepo.FindBySlug(ctx, roleSlug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}

func (s *RoleService) List(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}
