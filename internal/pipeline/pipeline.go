// Package pipeline sequences normalization, classification and aggregation
// for one batch, and owns the error boundary: callers always receive either
// a complete result or a single structured error payload.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/classify"
	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
	"github.com/mvfreire/finsights/internal/insights"
	"github.com/mvfreire/finsights/internal/normalize"
)

// Processor drives the batch pipeline. It owns every entity for the
// duration of one request; nothing persists between calls.
type Processor struct {
	norm          *normalize.Normalizer
	classifier    *classify.Classifier
	engine        *insights.Engine
	lowConfidence float64
	log           zerolog.Logger
	now           func() time.Time
}

// New wires the pipeline stages together.
func New(norm *normalize.Normalizer, classifier *classify.Classifier, engine *insights.Engine, cfg config.PipelineConfig, log zerolog.Logger) *Processor {
	return &Processor{
		norm:          norm,
		classifier:    classifier,
		engine:        engine,
		lowConfidence: cfg.LowConfidenceThreshold,
		log:           log,
		now:           time.Now,
	}
}

// Process runs the full pipeline over raw input. Errors are returned as-is;
// use Run for the mapped error envelope.
func (p *Processor) Process(ctx context.Context, input []byte) (*domain.ProcessedResult, error) {
	batch, err := p.norm.ParseInput(input)
	if err != nil {
		return nil, err
	}

	normalized, notes, err := p.norm.Normalize(batch)
	if err != nil {
		return nil, err
	}

	if dups := p.norm.DetectDuplicates(normalized.Transactions); len(dups) > 0 {
		// Duplicates are reported, never removed.
		notes = append(notes, fmt.Sprintf("detected %d possible duplicate transaction(s)", len(dups)))
	}

	classified := p.classifier.ClassifyBatch(ctx, normalized.Transactions)

	modelVersion := ModelVersionHeuristic
	if p.classifier.AIEnabled() {
		modelVersion = ModelVersionGemini

		lowConf := 0
		for _, tx := range classified {
			if tx.Confidence < p.lowConfidence {
				lowConf++
			}
		}
		if float64(lowConf) > float64(len(classified))*fallbackShare {
			modelVersion = ModelVersionGeminiFallback
			notes = append(notes, fmt.Sprintf("%d transactions classified with heuristic fallback", lowConf))
		}
	}

	summary := p.engine.Summarize(ctx, classified, normalized.HistoricalData)

	return &domain.ProcessedResult{
		UserID:          normalized.UserID,
		ProcessedAt:     p.now().Format(time.RFC3339),
		Transactions:    classified,
		Summary:         summary,
		ModelVersion:    modelVersion,
		ProcessingNotes: strings.Join(notes, "; "),
	}, nil
}

// Run executes Process behind the error boundary: a ValidationError maps to
// a 400-class payload, anything else (including a panic) to a 500-class
// payload. Exactly one of the return values is non-nil.
func (p *Processor) Run(ctx context.Context, input []byte) (result *domain.ProcessedResult, errResp *ErrorResponse) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("pipeline panic recovered")
			result = nil
			errResp = internalError(fmt.Sprintf("internal processing error: %v", r))
		}
	}()

	result, err := p.Process(ctx, input)
	if err != nil {
		if normalize.IsValidationError(err) {
			return nil, validationError(err.Error())
		}
		p.log.Error().Err(err).Msg("pipeline failed")
		return nil, internalError(fmt.Sprintf("internal processing error: %v", err))
	}
	return result, nil
}
