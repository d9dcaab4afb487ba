package handler

import (
	_ "embed"
	"net/http"

	"github.com/rs/zerolog"
)

//go:embed static/index.html
var indexPage []byte

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// HealthHandler serves the liveness probe and the index page.
type HealthHandler struct {
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: http.StatusOK, Message: "OK"})
}

// Index handles GET / requests.
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexPage); err != nil {
		h.logger.Debug().Err(err).Msg("failed to write index page")
	}
}
