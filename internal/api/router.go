package api

import (
	"net/http"
	"time"
	"user_mgmt/internal/api/handler"
	"user_mgmt/internal/api/middleware"
	"user_mgmt/internal/app/service"
	"user_mgmt/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	roleService *service.RoleService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present, puts claims in context.
	// Route groups decide whether a verified token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// User routes (authenticated)
		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", func(users chi.Router) {
			users.Use(middleware.Authenticator)
			userHandler.RegisterRoutes(users)
		})

		// Role routes (authenticated; creation is admin only)
		roleHandler := handler.NewRoleHandler(roleService)
		v1.Route("/roles", func(roles chi.Router) {
			roles.Use(middleware.Authenticator)
			roleHandler.RegisterRoutes(roles)
		})
	})

	return r
}
