package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schoolhub/backend/internal/admission"
	"schoolhub/backend/internal/auth"
	"schoolhub/backend/internal/gateway"
	"schoolhub/backend/internal/result"
	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/user"
)

func main() {
	log.Println("INFO: Starting SchoolHub server...")

	// 1. Load Configuration
	shared.LoadEnv("")

	config, err := shared.LoadServiceConfig("server")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if err := shared.ValidateServiceConfig(config); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	if shared.IsDevelopment(config) {
		shared.PrintConfig(config)
	}

	// 2. Connect to MongoDB
	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	if err := shared.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("FATAL: Failed to create indexes: %v", err)
	}

	// 3. Initialize Services
	svcs := &gateway.Services{
		Auth:       auth.NewService(db, config),
		Users:      user.NewService(db, config),
		Admissions: admission.NewService(db),
		Results:    result.NewService(db),
	}

	// 4. Setup Routes and Middleware
	router := gateway.SetupRoutes(svcs, config)

	// 5. Configure Server
	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Server listening on port %s", config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server shutdown error: %v", err)
	}

	log.Println("INFO: Server stopped.")
}
