package pipeline

// Model version tags recorded on each result, reflecting which
// classification path dominated the batch.
const (
	// ModelVersionGemini marks a batch classified through the AI path.
	ModelVersionGemini = "gemini-v1"

	// ModelVersionGeminiFallback marks an AI batch where a large share of
	// results came back below the confidence threshold.
	ModelVersionGeminiFallback = "gemini-v1-with-fallback"

	// ModelVersionHeuristic marks a batch classified offline.
	ModelVersionHeuristic = "heuristic-v1"
)

// fallbackShare is the fraction of low-confidence results above which the
// batch is tagged as AI-with-fallback. An observability signal, not a retry
// trigger.
const fallbackShare = 0.3
