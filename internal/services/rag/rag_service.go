package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Service is the top-level query path: session history in, tool-augmented
// generation, sources out, exchange recorded. One query runs start-to-finish
// at a time per instance; the registry's last-sources slots are
// single-writer state, so in-flight queries must not interleave over them.
type Service struct {
	generator interfaces.AIGenerator
	search    interfaces.SearchService
	sessions  interfaces.SessionService
	registry  interfaces.ToolRegistry
	logger    arbor.ILogger

	mu sync.Mutex
}

// NewService wires the query orchestration service.
func NewService(generator interfaces.AIGenerator, search interfaces.SearchService, sessions interfaces.SessionService, registry interfaces.ToolRegistry, logger arbor.ILogger) interfaces.RAGService {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		generator: generator,
		search:    search,
		sessions:  sessions,
		registry:  registry,
		logger:    logger,
	}
}

// Query answers one user query. The raw query text is what lands in
// session history; the generator receives it wrapped in a course-materials
// framing. Sources captured by tools during this call are returned and the
// registry slot is cleared on every path, so a failed query never leaks
// citations into the next one.
func (s *Service) Query(ctx context.Context, query string, sessionID string) (string, []models.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.registry.ResetSources()

	start := time.Now()

	history := ""
	if sessionID != "" {
		history = s.sessions.GetHistory(sessionID)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Bool("has_history", history != "").
		Msg("Processing query")

	prompt := fmt.Sprintf("Answer this question about course materials: %s", query)

	answer, err := s.generator.GenerateResponse(ctx, prompt, history, s.registry.GetToolDefinitions(), s.registry)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Query failed")
		return "", nil, err
	}

	sources := s.registry.GetLastSources()

	if sessionID != "" {
		s.sessions.AddExchange(sessionID, query, answer)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int("sources", len(sources)).
		Dur("duration", time.Since(start)).
		Msg("Query answered")

	return answer, sources, nil
}

// GetCourseAnalytics reports catalog stats for the courses endpoint.
func (s *Service) GetCourseAnalytics(ctx context.Context) models.CourseStats {
	return models.CourseStats{
		TotalCourses: s.search.GetCourseCount(ctx),
		CourseTitles: s.search.GetExistingCourseTitles(ctx),
	}
}
