package handler

import (
	"encoding/json"
	"net/http"
	"user_mgmt/internal/api/middleware"
	"user_mgmt/internal/app/service"
	"user_mgmt/internal/common"

	"github.com/go-chi/chi/v5"
)

type RoleHandler struct {
	roleService *service.RoleService
}

func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
	r.Get("/{roleSlug}", h.getRole)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createRole)
	})
}

func (h *RoleHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, roles)
}

func (h *RoleHandler) getRole(w http.ResponseWriter, r *http.Request) {
	roleSlug := chi.URLParam(r, "roleSlug")

	role, err := h.roleService.GetBySlug(r.Context(), roleSlug)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) createRole(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	role, err := h.roleService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, role)
}
