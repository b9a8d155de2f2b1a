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

	"github.com/joho/godotenv"

	"github.com/fuomag9/login-gateway/internal/accounts"
	"github.com/fuomag9/login-gateway/internal/api"
	"github.com/fuomag9/login-gateway/internal/config"
	"github.com/fuomag9/login-gateway/internal/database"
	"github.com/fuomag9/login-gateway/internal/provider"
	"github.com/fuomag9/login-gateway/internal/session"
	"github.com/fuomag9/login-gateway/internal/store"
	"github.com/fuomag9/login-gateway/internal/tokens"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Get underlying SQL database for cleanup
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}
	defer sqlDB.Close()

	// Run migrations for the active variant
	if err := database.RunMigrations(cfg.Database, cfg.Mode); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	signer := session.NewSigner([]byte(cfg.SecretKey), session.DefaultTTL)

	renderer, err := api.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// Build the router for the selected variant
	var router http.Handler
	switch cfg.Mode {
	case config.ModeOAuth:
		providerClient := provider.NewClient(cfg.OAuth)
		manager := tokens.NewManager(store.NewTokenStore(db), providerClient)
		router = api.NewOAuthRouter(cfg, manager, providerClient, signer, renderer)
	case config.ModePassword:
		service := accounts.NewService(store.NewCredentialStore(db))
		router = api.NewPasswordRouter(cfg, service, signer, renderer)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %d (%s mode)", cfg.Port, cfg.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
