package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"user_mgmt/internal/api"
	"user_mgmt/internal/app/service"
	"user_mgmt/internal/common/security"
	"user_mgmt/internal/domain/repository"
	"user_mgmt/internal/platform/config"
	"user_mgmt/internal/platform/database"
	"user_mgmt/internal/platform/sessions"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis (refresh-token session store)
	sessions.ConnectRedis()
	defer sessions.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	roleRepo := repository.NewPgRoleRepository(database.DB)
	sessionStore := sessions.NewStore(sessions.RDB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, roleRepo, sessionStore)
	userService := service.NewUserService(userRepo)
	roleService := service.NewRoleService(roleRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, roleService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
