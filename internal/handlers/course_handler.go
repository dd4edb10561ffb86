package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	ragService interfaces.RAGService
	logger     arbor.ILogger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(ragService interfaces.RAGService, logger arbor.ILogger) *CourseHandler {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &CourseHandler{
		ragService: ragService,
		logger:     logger,
	}
}

// CoursesHandler handles GET /api/courses requests
func (h *CourseHandler) CoursesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats := h.ragService.GetCourseAnalytics(r.Context())

	// course_titles marshals as [] rather than null
	if stats.CourseTitles == nil {
		stats.CourseTitles = []string{}
	}

	WriteJSON(w, http.StatusOK, stats)
}
