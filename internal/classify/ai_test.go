package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mvfreire/finsights/internal/domain"
)

type stubGenerator struct {
	response string
	err      error
	prompt   string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string, _ float32, _ int32) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func TestAIClassifier_ParsesResponse(t *testing.T) {
	gen := &stubGenerator{response: `{"category": "alimentacao", "subcategory": "padaria", "confidence": 0.92, "explanation": "Compra em padaria."}`}
	c := NewAIClassifier(gen)

	got, err := c.Classify(context.Background(), domain.NormalizedTransaction{
		Description: "PADARIA PAO DOCE",
		Amount:      -25.90,
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Category != domain.CategoryFood {
		t.Errorf("category = %q, want %q", got.Category, domain.CategoryFood)
	}
	if got.Subcategory != "padaria" {
		t.Errorf("subcategory = %q, want %q", got.Subcategory, "padaria")
	}
	if got.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", got.Confidence)
	}
}

func TestAIClassifier_StripsMarkdownFences(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"category\": \"transporte\", \"confidence\": 0.8}\n```"}
	c := NewAIClassifier(gen)

	got, err := c.Classify(context.Background(), domain.NormalizedTransaction{
		Description: "UBER TRIP",
		Amount:      -32,
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Category != domain.CategoryTransport {
		t.Errorf("category = %q, want %q", got.Category, domain.CategoryTransport)
	}
}

func TestAIClassifier_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "generator failure", err: errors.New("rate limited")},
		{name: "malformed json", response: "desculpe, nao consegui classificar"},
		{name: "missing category", response: `{"confidence": 0.8}`},
		{name: "missing confidence", response: `{"category": "alimentacao"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{response: tt.response, err: tt.err}
			c := NewAIClassifier(gen)

			if _, err := c.Classify(context.Background(), domain.NormalizedTransaction{Description: "X", Amount: -1}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAIClassifier_PromptCarriesTransaction(t *testing.T) {
	gen := &stubGenerator{response: `{"category": "alimentacao", "confidence": 0.9}`}
	c := NewAIClassifier(gen)

	_, err := c.Classify(context.Background(), domain.NormalizedTransaction{
		Description: "SUPERMERCADO EXTRA",
		Amount:      -245.80,
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !strings.Contains(gen.prompt, "SUPERMERCADO EXTRA") {
		t.Error("expected prompt to include the transaction description")
	}
	for _, cat := range domain.Categories {
		if !strings.Contains(gen.prompt, cat) {
			t.Errorf("expected prompt to list category %q", cat)
		}
	}
}
