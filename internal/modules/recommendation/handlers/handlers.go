// Package handlers provides the HTTP surface of the recommendation pipeline.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ronbokaya/advisor/internal/domain"
	"github.com/ronbokaya/advisor/internal/modules/recommendation"
)

// Handler handles recommendation HTTP requests.
type Handler struct {
	service *recommendation.Service
	log     zerolog.Logger
}

// NewHandler creates a new recommendation handler.
func NewHandler(service *recommendation.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "recommendation").Logger(),
	}
}

// HandleCreateRecommendation handles POST /api/v1/recommendations.
//
// Expected pipeline failures map to transport codes here and nowhere else:
// missing market data is 503, domain failures (filter exhaustion, short
// history, solver failure) are 400, anything unexpected is a generic 500.
func (h *Handler) HandleCreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InitialCapital < 0 {
		h.writeError(w, http.StatusBadRequest, "initial_capital must be non-negative")
		return
	}

	resp, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		if pe, ok := domain.AsPipelineError(err); ok {
			status := http.StatusBadRequest
			if pe.Reason == domain.ReasonDataUnavailable {
				status = http.StatusServiceUnavailable
			}
			h.writeError(w, status, pe.Message)
			return
		}
		h.log.Error().Err(err).Msg("Recommendation failed unexpectedly")
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"detail": message})
}
