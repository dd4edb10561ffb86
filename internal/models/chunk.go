package models

// CourseChunk is the atomic unit of semantic search: a contiguous span of
// course text plus the metadata needed to cite it. Chunks are immutable once
// created; they are produced by ingestion and consumed only by the store.
type CourseChunk struct {
	Content      string `json:"content"`
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// ChunkMetadata is the per-document metadata carried alongside each
// retrieved text in SearchResults. Index correspondence with the documents
// slice is an invariant of every search call.
type ChunkMetadata struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// EmbeddedChunk pairs a chunk with its content embedding for storage.
type EmbeddedChunk struct {
	Chunk     CourseChunk
	Embedding []float32
}
