package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mvfreire/finsights/internal/config"
	"github.com/mvfreire/finsights/internal/domain"
	"github.com/mvfreire/finsights/internal/normalize"
)

type stubStrategy struct {
	result *Classification
	err    error
	calls  int
}

func (s *stubStrategy) Classify(_ context.Context, _ domain.NormalizedTransaction) (*Classification, error) {
	s.calls++
	return s.result, s.err
}

func testNormalizer() *normalize.Normalizer {
	return normalize.New(config.PipelineConfig{
		MaxBatchSize:         200,
		MaxDescriptionLength: 100,
	})
}

func TestClassifyTransaction_AISuccess(t *testing.T) {
	ai := &stubStrategy{result: &Classification{
		Category:    domain.CategoryFood,
		Subcategory: "padaria",
		Confidence:  0.95,
		Explanation: "Compra em padaria.",
	}}
	c := NewClassifier(ai, NewHeuristic(), testNormalizer(), zerolog.Nop())

	got := c.ClassifyTransaction(context.Background(), domain.NormalizedTransaction{
		ID:          "tx-1",
		Date:        "2025-11-10",
		Description: "PADARIA PAO DOCE",
		Amount:      -25.90,
	})

	if got.Category != domain.CategoryFood {
		t.Errorf("category = %q, want %q", got.Category, domain.CategoryFood)
	}
	if got.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", got.Confidence)
	}
	if ai.calls != 1 {
		t.Errorf("AI strategy called %d times, want 1", ai.calls)
	}
	if got.NormalizedDescription == "" {
		t.Error("expected a normalized description")
	}
}

func TestClassifyTransaction_AIErrorFallsBackToHeuristic(t *testing.T) {
	ai := &stubStrategy{err: errors.New("model unavailable")}
	c := NewClassifier(ai, NewHeuristic(), testNormalizer(), zerolog.Nop())

	got := c.ClassifyTransaction(context.Background(), domain.NormalizedTransaction{
		ID:          "tx-2",
		Description: "SUPERMERCADO EXTRA",
		Amount:      -120,
	})

	if got.Category != domain.CategoryFood {
		t.Errorf("category = %q, want %q", got.Category, domain.CategoryFood)
	}
	if got.Confidence > config.HeuristicConfidenceCeil {
		t.Errorf("fallback confidence %v above heuristic ceiling", got.Confidence)
	}
}

func TestClassifyTransaction_InvalidCategoryForcedToCatchAll(t *testing.T) {
	ai := &stubStrategy{result: &Classification{
		Category:   "investimentos_exoticos",
		Confidence: 0.9,
	}}
	c := NewClassifier(ai, NewHeuristic(), testNormalizer(), zerolog.Nop())

	got := c.ClassifyTransaction(context.Background(), domain.NormalizedTransaction{
		ID:          "tx-3",
		Description: "CORRETORA XP",
		Amount:      -500,
	})

	if got.Category != domain.CategoryOther {
		t.Errorf("category = %q, want %q", got.Category, domain.CategoryOther)
	}
	if got.Confidence > invalidCategoryCap {
		t.Errorf("confidence = %v, want at most %v", got.Confidence, invalidCategoryCap)
	}
}

func TestClassifyTransaction_ConfidenceClamped(t *testing.T) {
	ai := &stubStrategy{result: &Classification{
		Category:   domain.CategoryFood,
		Confidence: 1.7,
	}}
	c := NewClassifier(ai, NewHeuristic(), testNormalizer(), zerolog.Nop())

	got := c.ClassifyTransaction(context.Background(), domain.NormalizedTransaction{
		ID:          "tx-4",
		Description: "RESTAURANTE",
		Amount:      -80,
	})

	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", got.Confidence)
	}
}

func TestClassifyTransaction_HeuristicOnly(t *testing.T) {
	c := NewClassifier(nil, NewHeuristic(), testNormalizer(), zerolog.Nop())

	if c.AIEnabled() {
		t.Error("AIEnabled() = true without an AI strategy")
	}

	got := c.ClassifyTransaction(context.Background(), domain.NormalizedTransaction{
		ID:          "tx-5",
		Description: "FARMACIA DROGASIL",
		Amount:      -42,
	})
	if got.Category != domain.CategoryHealth {
		t.Errorf("category = %q, want %q", got.Category, domain.CategoryHealth)
	}
}

func TestClassifyBatch_PreservesOrder(t *testing.T) {
	c := NewClassifier(nil, NewHeuristic(), testNormalizer(), zerolog.Nop())

	txs := []domain.NormalizedTransaction{
		{ID: "a", Description: "PADARIA", Amount: -10},
		{ID: "b", Description: "UBER TRIP", Amount: -20},
		{ID: "c", Description: "SALARIO", Amount: 3000},
	}

	got := c.ClassifyBatch(context.Background(), txs)

	if len(got) != len(txs) {
		t.Fatalf("classified %d transactions, want %d", len(got), len(txs))
	}
	for i, tx := range txs {
		if got[i].ID != tx.ID {
			t.Errorf("result[%d].ID = %q, want %q", i, got[i].ID, tx.ID)
		}
	}
	if got[1].Category != domain.CategoryTransport {
		t.Errorf("result[1].Category = %q, want %q", got[1].Category, domain.CategoryTransport)
	}
}
