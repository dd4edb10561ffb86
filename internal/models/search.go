package models

// SearchResults is the uniform return of every retrieval call: ranked
// document texts with parallel metadata and an optional error. Error and
// data are never both meaningfully populated; a set Error means no
// retrieval occurred and the documents must not be interpreted.
type SearchResults struct {
	Documents []string        `json:"documents"`
	Metadata  []ChunkMetadata `json:"metadata"`
	Error     string          `json:"error,omitempty"`
}

// NewErrorResults builds a SearchResults carrying only an error message.
func NewErrorResults(msg string) SearchResults {
	return SearchResults{
		Documents: []string{},
		Metadata:  []ChunkMetadata{},
		Error:     msg,
	}
}

// IsEmpty reports whether the result set holds zero documents. It is
// independent of Error: an errored result is also empty, but an empty
// result is not necessarily an error.
func (r SearchResults) IsEmpty() bool {
	return len(r.Documents) == 0
}
