package models

// Source is a display-facing citation derived from a retrieved chunk.
// Tools record one Source per returned document into a single
// most-recent-call slot; the slot is overwritten on every search and
// cleared after the caller consumes it.
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}
