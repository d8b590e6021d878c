package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"spelldaily/internal/audio"
	"spelldaily/internal/config"
	"spelldaily/internal/database"
	"spelldaily/internal/handlers"
	"spelldaily/internal/repository"
	"spelldaily/internal/security"
	"spelldaily/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	setRepo := repository.NewQuestionSetRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	lifecycleRepo := repository.NewLifecycleRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize services
	analyticsService := service.NewAnalyticsService(analyticsRepo, lifecycleRepo)
	beaconEmitter := service.NewBeaconEmitter(cfg.BeaconBaseURL)
	sessionService := service.NewSessionService(setRepo, analyticsService, beaconEmitter, cfg.AutosaveInterval, cfg.SessionIdleTimeout)
	defer sessionService.Stop()

	setService := service.NewQuestionSetService(setRepo)
	audioService := audio.NewService(filepath.Join(cfg.StaticFilesPath, "audio"))

	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.JWTLifetime)
	if err := authService.EnsureBootstrapAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create bootstrap admin: %v", err)
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.DigestSender, cfg.DigestRecipient)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if emailService.IsEnabled() {
		analyticsService.SetCompletionNotifier(emailService)
	}

	var googleConfig *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		googleConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email"},
		}
	}

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	gameHandler := handlers.NewGameHandler(sessionService, setService, audioService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	authHandler := handlers.NewAuthHandler(authService, googleConfig, cfg.OAuthRedirectBase)
	adminHandler := handlers.NewAdminHandler(setService, audioService)

	// Setup routes
	mux := http.NewServeMux()

	// Static files (the game page and the pre-recorded word audio)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Game routes
	mux.HandleFunc("POST /v1/sessions", middleware.RateLimit(gameHandler.StartSession))
	mux.HandleFunc("GET /v1/sessions/{id}", gameHandler.GetState)
	mux.HandleFunc("POST /v1/sessions/{id}/answer", gameHandler.SubmitAnswer)
	mux.HandleFunc("POST /v1/sessions/{id}/continue", gameHandler.Continue)
	mux.HandleFunc("POST /v1/sessions/{id}/celebration-done", gameHandler.CelebrationDone)
	mux.HandleFunc("POST /v1/sessions/{id}/timeout", gameHandler.Timeout)
	mux.HandleFunc("POST /v1/sessions/{id}/review", gameHandler.StartReview)
	mux.HandleFunc("POST /v1/sessions/{id}/practice", gameHandler.StartPractice)
	mux.HandleFunc("POST /v1/sessions/{id}/backspace", gameHandler.RecordBackspace)
	mux.HandleFunc("POST /v1/sessions/{id}/speaker-click", gameHandler.RecordSpeakerClick)
	mux.HandleFunc("POST /v1/sessions/{id}/save", gameHandler.SaveProgress)
	mux.HandleFunc("GET /v1/audio-manifest", gameHandler.AudioManifest)

	// Lifecycle beacons
	mux.HandleFunc("POST /v1/analytics/started", analyticsHandler.SessionStarted)
	mux.HandleFunc("POST /v1/analytics/completed", analyticsHandler.SessionCompleted)

	// Auth routes
	mux.HandleFunc("POST /v1/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /v1/auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /v1/auth/google/callback", authHandler.GoogleOAuthCallback)

	// Admin routes
	mux.HandleFunc("GET /v1/admin/sets", middleware.RequireAdmin(adminHandler.ListSets))
	mux.HandleFunc("GET /v1/admin/sets/{code}", middleware.RequireAdmin(adminHandler.GetSet))
	mux.HandleFunc("PUT /v1/admin/sets/{code}", middleware.RequireAdmin(adminHandler.SaveSet))
	mux.HandleFunc("DELETE /v1/admin/sets/{code}", middleware.RequireAdmin(adminHandler.DeleteSet))
	mux.HandleFunc("POST /v1/admin/sets/{code}/audio", middleware.RequireAdmin(adminHandler.GenerateAudio))
	mux.HandleFunc("GET /v1/admin/analytics/{code}/words", middleware.RequireAdmin(analyticsHandler.WordAnalytics))
	mux.HandleFunc("GET /v1/admin/analytics/{code}/completion", middleware.RequireAdmin(analyticsHandler.Completion))
	mux.HandleFunc("GET /v1/admin/analytics/{code}/lifecycle", middleware.RequireAdmin(analyticsHandler.LifecycleCounts))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the daily digest sender
	digestCtx, cancelDigest := context.WithCancel(context.Background())
	defer cancelDigest()
	go emailService.RunDailyDigest(digestCtx, analyticsService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	cancelDigest()
	sessionService.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
