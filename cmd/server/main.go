package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"Agora/internal/api/middleware"
	"Agora/internal/api/routes"
	"Agora/internal/core/reactions"
	"Agora/internal/db/migrations"
	postgresRepo "Agora/internal/db/postgres"
)

func main() {
	// Token secret shared with whatever issues viewer tokens
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Empty DATABASE_URL runs on an in-memory store (development only)
	var repo reactions.Repository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database:", err)
		}
		log.Println("Connected to database")

		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Println("Migrations completed successfully")

		repo = postgresRepo.NewReactionRepository(db)
	} else {
		log.Println("DATABASE_URL not set, reactions are kept in memory")
		repo = reactions.NewMemoryRepository()
	}

	reactionService := reactions.NewService(repo, reactions.DefaultCountCacheSize, slog.Default())

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting per client IP
	rateLimiter := middleware.NewRateLimiter(envInt("RATE_LIMIT_PER_MINUTE", 100), 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	authMiddleware := middleware.NewAuthMiddleware([]byte(jwtSecret))
	routes.RegisterEngagementRoutes(r, reactionService, authMiddleware, allowedOrigins())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Reaction service starting on port %s\n", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// allowedOrigins reads CORS_ALLOWED_ORIGINS (comma separated)
func allowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000"}
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// envInt reads a positive integer from the environment, falling back to def
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
