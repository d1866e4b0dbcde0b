package router

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/api/handlers"
	"github.com/mvfreire/finsights/internal/api/middleware"
)

// Config holds router configuration.
type Config struct {
	Logger            zerolog.Logger
	AllowedOriginsCSV string
	ProcessHandler    *handlers.ProcessHandler
	ChatHandler       *handlers.ChatHandler
}

// New creates the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(cfg.AllowedOriginsCSV),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         3600,
	}))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/process", cfg.ProcessHandler.Process)
		if cfg.ChatHandler != nil {
			r.Post("/chat", cfg.ChatHandler.Send)
			r.Delete("/chat/{sessionID}", cfg.ChatHandler.Clear)
		}
	})

	return r
}

func splitOrigins(csv string) []string {
	if csv == "" {
		return []string{"*"}
	}
	parts := strings.Split(csv, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
