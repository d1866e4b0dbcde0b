package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/api/handlers"
	"github.com/mvfreire/finsights/internal/api/router"
	"github.com/mvfreire/finsights/internal/chat"
	"github.com/mvfreire/finsights/internal/classify"
	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/gemini"
	"github.com/mvfreire/finsights/internal/insights"
	"github.com/mvfreire/finsights/internal/logger"
	"github.com/mvfreire/finsights/internal/normalize"
	"github.com/mvfreire/finsights/internal/pipeline"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// The model client is optional: without it the service still runs on
	// the heuristic path alone.
	var gen *gemini.Client
	if cfg.Pipeline.UseAI {
		gen, err = gemini.NewClient(ctx, cfg.Gemini)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini unavailable, running heuristic-only")
			gen = nil
		}
	}

	aiProc, heuristicProc := buildProcessors(cfg, gen, log)

	var assistant *chat.Assistant
	if gen != nil {
		assistant = chat.NewAssistant(gen, chat.NewStore(), log)
	}

	mux := router.New(router.Config{
		Logger:            log,
		AllowedOriginsCSV: cfg.HTTP.AllowedOriginsCSV,
		ProcessHandler:    handlers.NewProcessHandler(aiProc, heuristicProc),
		ChatHandler:       handlers.NewChatHandler(assistant),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.HTTP.Port).Bool("ai", gen != nil).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// buildProcessors wires one pipeline per classification mode. The AI
// processor is nil when no model client is available.
func buildProcessors(cfg config.Config, gen *gemini.Client, log zerolog.Logger) (*pipeline.Processor, *pipeline.Processor) {
	norm := normalize.New(cfg.Pipeline)
	heuristic := classify.NewHeuristic()

	heuristicClassifier := classify.NewClassifier(nil, heuristic, norm, log)
	heuristicEngine := insights.NewEngine(nil, cfg.Pipeline, log)
	heuristicProc := pipeline.New(norm, heuristicClassifier, heuristicEngine, cfg.Pipeline, log)

	if gen == nil {
		return nil, heuristicProc
	}

	aiClassifier := classify.NewClassifier(classify.NewAIClassifier(gen), heuristic, norm, log)
	aiEngine := insights.NewEngine(gen, cfg.Pipeline, log)
	aiProc := pipeline.New(norm, aiClassifier, aiEngine, cfg.Pipeline, log)

	return aiProc, heuristicProc
}
