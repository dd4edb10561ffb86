package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// ClearSessionRequest is the POST /api/session/clear body.
type ClearSessionRequest struct {
	SessionID string `json:"session_id"`
}

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	sessionService interfaces.SessionService
	logger         arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// ClearSessionHandler handles POST /api/session/clear requests
func (h *SessionHandler) ClearSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ClearSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode clear session request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" {
		WriteError(w, http.StatusBadRequest, "session_id field is required")
		return
	}

	h.sessionService.ClearSession(req.SessionID)
	h.logger.Debug().Str("session_id", req.SessionID).Msg("Session cleared")

	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
