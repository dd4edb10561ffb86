package search

import (
	"math"
	"sort"

	"github.com/ternarybob/lectio/internal/models"
)

// cosineSimilarity returns the cosine similarity between two vectors.
// Mismatched lengths or a zero-norm vector yield 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

type scoredChunk struct {
	chunk models.EmbeddedChunk
	score float64
}

// rankBySimilarity orders candidates by descending cosine similarity to the
// query vector. The stable sort keeps the storage order (course title, then
// chunk index) on score ties, so identical inputs rank identically.
func rankBySimilarity(queryVec []float32, candidates []models.EmbeddedChunk) []models.CourseChunk {
	scored := make([]scoredChunk, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, scoredChunk{
			chunk: candidate,
			score: cosineSimilarity(queryVec, candidate.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]models.CourseChunk, 0, len(scored))
	for _, sc := range scored {
		ranked = append(ranked, sc.chunk.Chunk)
	}
	return ranked
}
