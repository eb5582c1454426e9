package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"vocaboost-backend/internal/handlers"
	"vocaboost-backend/internal/middleware"
	"vocaboost-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	topicHandler *handlers.TopicHandler,
	flashcardHandler *handlers.FlashcardHandler,
	savedSetHandler *handlers.SavedSetHandler,
	studyHandler *handlers.StudyHandler,
	gameHandler *handlers.GameHandler,
	achievementHandler *handlers.AchievementHandler,
	statsHandler *handlers.StatsHandler,
	searchHandler *handlers.SearchHandler,
	userHandler *handlers.UserHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Topic Routes ────
		r.Route("/topics", func(r chi.Router) {
			r.Get("/", topicHandler.List)
			r.Get("/{id}", topicHandler.Get)
			r.Get("/{id}/suggestions", topicHandler.Suggestions)
		})

		// ──── Flashcard Set Routes ────
		r.Route("/flashcard-sets", func(r chi.Router) {
			r.With(jwtAuth.Optional).Get("/", flashcardHandler.ListPublic)
			r.With(jwtAuth.Optional).Get("/{id}", flashcardHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", flashcardHandler.Create)
				r.Get("/mine", flashcardHandler.Mine)
				r.Put("/{id}", flashcardHandler.Update)
				r.Delete("/{id}", flashcardHandler.Delete)
				r.Post("/{id}/flashcards", flashcardHandler.AddCards)
				r.Put("/{id}/flashcards/{cardID}", flashcardHandler.UpdateCard)
				r.Delete("/{id}/flashcards/{cardID}", flashcardHandler.DeleteCard)
			})
		})

		// ──── Saved Set Routes ────
		r.Route("/saved-sets", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", savedSetHandler.Save)
			r.Get("/", savedSetHandler.List)
			r.Put("/{id}", savedSetHandler.Update)
			r.Delete("/{id}", savedSetHandler.Delete)
		})

		// ──── Study Routes ────
		r.Route("/study", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/sessions", studyHandler.SubmitSession)
			r.Get("/progress", studyHandler.ListProgress)
			r.Post("/feedback", studyHandler.SubmitFeedback)
			r.Get("/feedback", studyHandler.ListFeedback)
		})

		// ──── Game Routes ────
		r.Route("/games", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/sessions", gameHandler.Record)
			r.Get("/sessions", gameHandler.History)
		})

		// ──── Achievement Routes ────
		r.Route("/achievements", func(r chi.Router) {
			r.Get("/", achievementHandler.Catalog)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/mine", achievementHandler.Mine)
				r.Post("/check", achievementHandler.Check)
			})
		})

		// ──── Stats Routes ────
		r.Route("/stats", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/daily", statsHandler.Daily)
			r.Get("/weekly", statsHandler.Weekly)
			r.Get("/overview", statsHandler.Overview)
		})

		r.With(jwtAuth.Middleware).Get("/dashboard", statsHandler.Dashboard)

		// ──── Leaderboard & Search (public) ────
		r.Get("/leaderboard", statsHandler.Leaderboard)
		r.Get("/search", searchHandler.Search)

		// ──── User Routes ────
		r.Route("/users", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateProfile)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
