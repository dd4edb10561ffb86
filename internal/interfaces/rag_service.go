package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// RAGService is the top-level query orchestrator: it resolves session
// history, runs tool-augmented generation, records the exchange, and
// returns the answer with the sources the tools touched.
type RAGService interface {
	// Query answers one user query. A blank sessionID runs stateless;
	// a non-empty one threads conversation history through the prompt
	// and records the new exchange.
	Query(ctx context.Context, query string, sessionID string) (string, []models.Source, error)

	// GetCourseAnalytics reports corpus-level stats for the courses endpoint.
	GetCourseAnalytics(ctx context.Context) models.CourseStats
}
