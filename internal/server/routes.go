package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - query orchestration
	mux.HandleFunc("/api/query", s.app.QueryHandler.QueryHandler)

	// API routes - course catalog
	mux.HandleFunc("/api/courses", s.app.CourseHandler.CoursesHandler)

	// API routes - sessions
	mux.HandleFunc("/api/session/clear", s.app.SessionHandler.ClearSessionHandler)

	// API routes - system
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
