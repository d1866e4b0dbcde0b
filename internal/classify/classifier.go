// Package classify assigns a spending category and confidence to each
// transaction. Two strategies share one result contract: the external model
// is tried first when enabled, and the deterministic keyword classifier
// catches everything the model cannot answer.
package classify

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/domain"
	"github.com/mvfreire/finsights/internal/normalize"
)

// invalidCategoryCap bounds the confidence of a classification whose
// category fell outside the closed set.
const invalidCategoryCap = 0.3

// progressEvery controls how often batch progress is logged.
const progressEvery = 10

// Strategy is one link of the fallback chain.
type Strategy interface {
	Classify(ctx context.Context, tx domain.NormalizedTransaction) (*Classification, error)
}

// Classifier orchestrates the fallback chain per transaction: try the AI
// strategy when present, fall through to the heuristic on any failure, then
// force out-of-set categories to the catch-all with capped confidence.
type Classifier struct {
	ai        Strategy
	heuristic *Heuristic
	norm      *normalize.Normalizer
	log       zerolog.Logger
}

// NewClassifier builds the orchestrator. ai may be nil, which keeps the
// chain heuristic-only.
func NewClassifier(ai Strategy, heuristic *Heuristic, norm *normalize.Normalizer, log zerolog.Logger) *Classifier {
	return &Classifier{
		ai:        ai,
		heuristic: heuristic,
		norm:      norm,
		log:       log,
	}
}

// AIEnabled reports whether the AI strategy is in the chain.
func (c *Classifier) AIEnabled() bool {
	return c.ai != nil
}

// ClassifyTransaction runs the fallback chain for a single transaction.
// It always produces a result; AI failures are absorbed silently.
func (c *Classifier) ClassifyTransaction(ctx context.Context, tx domain.NormalizedTransaction) domain.ClassifiedTransaction {
	var cls Classification

	resolved := false
	if c.ai != nil {
		got, err := c.ai.Classify(ctx, tx)
		if err != nil {
			c.log.Debug().Err(err).Str("transaction_id", tx.ID).Msg("AI classification failed, using heuristic")
		} else if got != nil {
			cls = *got
			resolved = true
		}
	}
	if !resolved {
		cls = c.heuristic.Classify(tx)
	}

	if !domain.ValidCategory(cls.Category) {
		cls.Category = domain.CategoryOther
		cls.Confidence = math.Min(cls.Confidence, invalidCategoryCap)
	}
	cls.Confidence = clamp01(cls.Confidence)

	return domain.ClassifiedTransaction{
		NormalizedTransaction: tx,
		Category:              cls.Category,
		Subcategory:           cls.Subcategory,
		Confidence:            cls.Confidence,
		NormalizedDescription: c.norm.CleanDescription(tx.Description),
		Explanation:           cls.Explanation,
	}
}

// ClassifyBatch classifies every transaction in order, logging progress
// every few transactions. Transactions are independent of each other;
// aggregation downstream waits for the whole slice.
func (c *Classifier) ClassifyBatch(ctx context.Context, txs []domain.NormalizedTransaction) []domain.ClassifiedTransaction {
	total := len(txs)
	classified := make([]domain.ClassifiedTransaction, 0, total)

	for i, tx := range txs {
		if i%progressEvery == 0 || i == total-1 {
			c.log.Debug().Int("done", i+1).Int("total", total).Msg("classifying batch")
		}
		classified = append(classified, c.ClassifyTransaction(ctx, tx))
	}

	return classified
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
