package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// QueryRequest is the POST /api/query body.
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the POST /api/query reply.
type QueryResponse struct {
	Answer    string          `json:"answer"`
	Sources   []models.Source `json:"sources"`
	SessionID string          `json:"session_id"`
}

// QueryHandler handles query-related HTTP requests
type QueryHandler struct {
	ragService     interfaces.RAGService
	sessionService interfaces.SessionService
	logger         arbor.ILogger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(
	ragService interfaces.RAGService,
	sessionService interfaces.SessionService,
	logger arbor.ILogger,
) *QueryHandler {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &QueryHandler{
		ragService:     ragService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// QueryHandler handles POST /api/query requests
func (h *QueryHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode query request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "Query field is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = h.sessionService.CreateSession()
	}

	h.logger.Info().
		Int("query_length", len(req.Query)).
		Str("session_id", sessionID).
		Msg("Processing query request")

	answer, sources, err := h.ragService.Query(r.Context(), req.Query, sessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to answer query")
		WriteError(w, http.StatusInternalServerError, "Failed to generate response: "+err.Error())
		return
	}

	// sources marshals as [] rather than null
	if sources == nil {
		sources = []models.Source{}
	}

	WriteJSON(w, http.StatusOK, QueryResponse{
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	})
}
