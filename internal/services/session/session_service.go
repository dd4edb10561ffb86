package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// message is one turn of a stored conversation.
type message struct {
	role    string // "User" or "Assistant"
	content string
}

// Service keeps per-session conversation history in memory. Histories are
// ephemeral: a restart starts every conversation fresh, which is why no
// storage backend is involved. Each session retains at most maxHistory
// exchanges (two messages per exchange); older turns are evicted.
type Service struct {
	mu         sync.RWMutex
	sessions   map[string][]message
	maxHistory int
	logger     arbor.ILogger
}

// NewService builds the session store. maxHistory is the number of
// retained exchanges per session, from search.max_history.
func NewService(maxHistory int, logger arbor.ILogger) interfaces.SessionService {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Service{
		sessions:   make(map[string][]message),
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// CreateSession returns a new unique session ID. The session itself is
// materialized lazily on the first AddExchange.
func (s *Service) CreateSession() string {
	id := common.NewSessionID()
	s.logger.Debug().Str("session_id", id).Msg("Created session")
	return id
}

// AddExchange appends one user/assistant exchange, creating the session
// if needed and evicting the oldest messages beyond the retention window.
func (s *Service) AddExchange(sessionID, userMessage, assistantMessage string) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID],
		message{role: "User", content: userMessage},
		message{role: "Assistant", content: assistantMessage},
	)

	if limit := 2 * s.maxHistory; len(history) > limit {
		history = history[len(history)-limit:]
	}
	s.sessions[sessionID] = history
}

// GetHistory renders retained exchanges oldest-first as
// "User: ...\nAssistant: ..." lines for prompt inclusion.
func (s *Service) GetHistory(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.role, msg.content))
	}
	return strings.Join(lines, "\n")
}

// ClearSession removes a session's history.
func (s *Service) ClearSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
