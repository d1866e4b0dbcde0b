package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mvfreire/finsights/internal/api/middleware"
	"github.com/mvfreire/finsights/internal/logger"
	"github.com/mvfreire/finsights/internal/pipeline"
)

// maxBodyBytes bounds request bodies well above the batch-size limit.
const maxBodyBytes = 4 << 20

// ProcessHandler exposes the transaction pipeline over HTTP.
type ProcessHandler struct {
	ai        *pipeline.Processor // nil when the AI path is unavailable
	heuristic *pipeline.Processor
}

// NewProcessHandler creates the handler. ai may be nil.
func NewProcessHandler(ai, heuristic *pipeline.Processor) *ProcessHandler {
	return &ProcessHandler{ai: ai, heuristic: heuristic}
}

// Process handles POST /api/process. The body may be a JSON object, a bare
// JSON array, or tabular text; `?ai=false` or a `"use_ai": false` body
// field forces the heuristic-only path.
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Msg("Failed to read request body")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	proc := h.heuristic
	if h.ai != nil && r.URL.Query().Get("ai") != "false" && !bodyDisablesAI(body) {
		proc = h.ai
	}

	result, errResp := proc.Run(r.Context(), body)
	if errResp != nil {
		middleware.WriteJSON(w, errResp.Error.Code, errResp)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

// bodyDisablesAI reports whether a JSON object body carries "use_ai": false.
// Malformed bodies are left for the pipeline's own validation.
func bodyDisablesAI(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var flags struct {
		UseAI *bool `json:"use_ai"`
	}
	if err := json.Unmarshal(trimmed, &flags); err != nil {
		return false
	}
	return flags.UseAI != nil && !*flags.UseAI
}
