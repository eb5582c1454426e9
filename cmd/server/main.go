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

	"vocaboost-backend/internal/config"
	"vocaboost-backend/internal/database"
	"vocaboost-backend/internal/handlers"
	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/repository"
	"vocaboost-backend/internal/router"
	"vocaboost-backend/internal/services"
	"vocaboost-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting VocaBoost Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	topicRepo := repository.NewTopicRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	savedSetRepo := repository.NewSavedSetRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)
	gameRepo := repository.NewGameRepo(pool)
	achievementRepo := repository.NewAchievementRepo(pool)
	feedbackRepo := repository.NewFeedbackRepo(pool)

	// ──── Step 5: Initialize Gemini Embedder ────
	embedder, err := services.NewGeminiEmbedder(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer embedder.Close()
	if embedder.Available() {
		log.Println("✓ Gemini embedder initialized")
	} else {
		log.Println("• Gemini embedder disabled, suggestions use popularity ranking")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	achievementService := services.NewAchievementService(
		achievementRepo, progressRepo, gameRepo, savedSetRepo, userRepo, redisClients.PubSub)
	authService := services.NewAuthService(userRepo, redisClients.Tokens, jwtAuth, achievementService)
	studyService := services.NewStudyService(pool, achievementService)
	gameService := services.NewGameService(gameRepo, userRepo, progressRepo, achievementService)
	suggestionService := services.NewSuggestionService(
		embedder,
		time.Duration(cfg.SuggestionTimeoutSecs)*time.Second,
		cfg.SuggestionSimilarity,
		cfg.SuggestionDefaultLimit,
	)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	topicHandler := handlers.NewTopicHandler(topicRepo, flashcardRepo, suggestionService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardRepo, topicRepo)
	savedSetHandler := handlers.NewSavedSetHandler(savedSetRepo, flashcardRepo, achievementService)
	studyHandler := handlers.NewStudyHandler(studyService, progressRepo, feedbackRepo)
	gameHandler := handlers.NewGameHandler(gameService)
	achievementHandler := handlers.NewAchievementHandler(achievementRepo, achievementService)
	statsHandler := handlers.NewStatsHandler(progressRepo, userRepo, achievementRepo, achievementService)
	searchHandler := handlers.NewSearchHandler(topicRepo, flashcardRepo)
	userHandler := handlers.NewUserHandler(userRepo)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		topicHandler,
		flashcardHandler,
		savedSetHandler,
		studyHandler,
		gameHandler,
		achievementHandler,
		statsHandler,
		searchHandler,
		userHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ VocaBoost Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
