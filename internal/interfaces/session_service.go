package interfaces

// SessionService keeps short conversation histories keyed by session ID.
// Histories are bounded: only the most recent exchanges are retained.
type SessionService interface {
	// CreateSession returns a new unique session ID.
	CreateSession() string

	// AddExchange appends one user/assistant exchange, evicting the
	// oldest exchange beyond the retention window.
	AddExchange(sessionID, userMessage, assistantMessage string)

	// GetHistory renders the retained exchanges for prompt
	// inclusion, oldest first. Empty string when the session is unknown
	// or empty.
	GetHistory(sessionID string) string

	// ClearSession removes a session's history.
	ClearSession(sessionID string)
}
