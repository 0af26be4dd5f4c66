package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"smartstudy-backend/internal/handlers"
	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	taskHandler *handlers.TaskHandler,
	courseHandler *handlers.CourseHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	scheduleHandler *handlers.ScheduleHandler,
	sessionHandler *handlers.SessionHandler,
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
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)

	// Solver runs hold a time budget each; cap generation attempts per user.
	generateLimiter := middleware.NewRateLimiter(6, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Task Routes ────
		r.Route("/tasks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Put("/{id}", taskHandler.Update)
			r.Post("/{id}/complete", taskHandler.Complete)
			r.Delete("/{id}", taskHandler.Delete)
		})

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", courseHandler.List)
			r.Post("/", courseHandler.Create)
			r.Delete("/{id}", courseHandler.Delete)
		})

		// ──── Availability Routes ────
		r.Route("/availability", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Route("/rules", func(r chi.Router) {
				r.Get("/", availabilityHandler.ListRules)
				r.Post("/", availabilityHandler.CreateRule)
				r.Delete("/{id}", availabilityHandler.DeleteRule)
			})
			r.Route("/exceptions", func(r chi.Router) {
				r.Get("/", availabilityHandler.ListExceptions)
				r.Post("/", availabilityHandler.CreateException)
				r.Delete("/{id}", availabilityHandler.DeleteException)
			})
		})

		// ──── Schedule Routes ────
		r.Route("/schedule", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/week", scheduleHandler.Week)

			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", scheduleHandler.Generate)
			})
		})

		// ──── Study Session Routes ────
		r.Route("/study-sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Patch("/{id}/status", sessionHandler.UpdateStatus)
		})

		// ──── User & Preferences Routes ────
		r.Route("/users", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
