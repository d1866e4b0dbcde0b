package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mvfreire/finsights/internal/domain"
	"github.com/mvfreire/finsights/internal/gemini"
)

// TextGenerator is the model boundary consumed by the AI strategies. The
// concrete implementation lives in the gemini package; tests use fakes.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

// AIClassifier delegates classification to the external model. Any failure
// signal (network error, timeout, empty response, malformed JSON, missing
// required keys) is returned as an error so the orchestrator falls through
// to the heuristic strategy.
type AIClassifier struct {
	gen TextGenerator
}

// NewAIClassifier wraps a text generator as a classification strategy.
func NewAIClassifier(gen TextGenerator) *AIClassifier {
	return &AIClassifier{gen: gen}
}

// modelClassification mirrors the JSON object the model is asked to return.
type modelClassification struct {
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Confidence  *float64 `json:"confidence"`
	Explanation *string  `json:"explanation"`
}

// Classify asks the model for a single classification object.
func (c *AIClassifier) Classify(ctx context.Context, tx domain.NormalizedTransaction) (*Classification, error) {
	prompt := buildClassificationPrompt(tx)

	response, err := c.gen.GenerateText(ctx, prompt, 0.2, 256)
	if err != nil {
		return nil, err
	}

	clean := gemini.StripJSONFences(response)

	var parsed modelClassification
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("classify: malformed model response: %w", err)
	}
	if parsed.Category == nil || parsed.Confidence == nil {
		return nil, fmt.Errorf("classify: model response missing required keys")
	}

	result := &Classification{
		Category:   *parsed.Category,
		Confidence: *parsed.Confidence,
	}
	if parsed.Subcategory != nil {
		result.Subcategory = *parsed.Subcategory
	}
	if parsed.Explanation != nil {
		result.Explanation = *parsed.Explanation
	}
	return result, nil
}
