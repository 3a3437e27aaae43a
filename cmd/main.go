package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	githubclient "rsbackend/clients/github"
	"rsbackend/config"
	"rsbackend/db"
	"rsbackend/handlers"
	"rsbackend/middleware"
	"rsbackend/services/auditlog"
	"rsbackend/services/feedback"
	"rsbackend/services/installations"
	"rsbackend/services/meta"
	"rsbackend/services/repositories"
	"rsbackend/services/setup"
	"rsbackend/services/txmanager"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	installationsRepo := db.NewPostgresInstallationsRepository(dbConn, cfg.DatabaseSchema)
	repositoriesRepo := db.NewPostgresRepositoriesRepository(dbConn, cfg.DatabaseSchema)
	auditLogsRepo := db.NewPostgresAuditLogsRepository(dbConn, cfg.DatabaseSchema)
	feedbackRepo := db.NewPostgresFeedbackRepository(dbConn, cfg.DatabaseSchema)
	metaRepo := db.NewPostgresMetaRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	// GitHub App client; config was validated at load, so a failure here is
	// a startup bug, not a per-request condition
	githubClient, err := githubclient.NewClient(cfg.GitHubApp)
	if err != nil {
		return err
	}

	auditLogService := auditlog.NewAuditLogService(auditLogsRepo)
	installationsService := installations.NewInstallationsService(
		installationsRepo, repositoriesRepo, auditLogService, txManager, cfg.SetupWindowMinutes)
	repositoriesService := repositories.NewRepositoriesService(repositoriesRepo, auditLogService)
	setupService := setup.NewSetupService(
		installationsService, repositoriesService, auditLogService, githubClient, txManager)
	feedbackService := feedback.NewFeedbackService(feedbackRepo, repositoriesRepo, auditLogService, txManager)
	metaService := meta.NewMetaService(metaRepo)

	setupHandler := handlers.NewSetupHTTPHandler(setupService)
	botHandler := handlers.NewBotHTTPHandler(installationsService, repositoriesService, feedbackService, auditLogService)
	publicHandler := handlers.NewPublicHTTPHandler(metaService, repositoriesService, feedbackService)
	botAuth := middleware.NewBotAuthMiddleware(cfg.BotAPIKey)

	// Create a new router
	router := mux.NewRouter()

	setupHandler.SetupEndpoints(router)
	botHandler.SetupEndpoints(router, botAuth)
	publicHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
