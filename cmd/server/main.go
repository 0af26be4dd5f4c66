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

	"smartstudy-backend/internal/config"
	"smartstudy-backend/internal/database"
	"smartstudy-backend/internal/handlers"
	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/repository"
	"smartstudy-backend/internal/router"
	"smartstudy-backend/internal/services"
	"smartstudy-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting SmartStudy Backend...")

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

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	taskRepo := repository.NewTaskRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	availabilityRepo := repository.NewAvailabilityRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	scheduleService := services.NewScheduleService(
		taskRepo,
		availabilityRepo,
		sessionRepo,
		userRepo,
		redisClient,
		time.Duration(cfg.SolverTimeoutSeconds)*time.Second,
		cfg.ScheduleHorizonDays,
		cfg.GreedyFallbackThreshold,
	)
	log.Printf("✓ Scheduler ready (solver budget %ds, horizon %d days)", cfg.SolverTimeoutSeconds, cfg.ScheduleHorizonDays)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClient, cfg.JWTSecret, cfg.FrontendURL)
	log.Println("✓ WebSocket hub started")

	// ──── Initialize Handlers ────
	taskHandler := handlers.NewTaskHandler(taskRepo)
	courseHandler := handlers.NewCourseHandler(courseRepo)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityRepo)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, sessionRepo)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, wsHub)
	userHandler := handlers.NewUserHandler(userRepo)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		taskHandler,
		courseHandler,
		availabilityHandler,
		scheduleHandler,
		sessionHandler,
		userHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // generation may hold the solver budget
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

	log.Printf("✓ SmartStudy Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
