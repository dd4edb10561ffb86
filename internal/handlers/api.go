package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

type APIHandler struct {
	ragService interfaces.RAGService
	logger     arbor.ILogger
}

func NewAPIHandler(ragService interfaces.RAGService) *APIHandler {
	return &APIHandler{
		ragService: ragService,
		logger:     common.GetLogger(),
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.Build,
		"git_commit": common.GitCommit,
	})
}

// HealthHandler returns health check status with the catalog size
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	stats := h.ragService.GetCourseAnalytics(r.Context())

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"courses": stats.TotalCourses,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
