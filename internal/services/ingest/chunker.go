package ingest

import (
	"regexp"
	"strings"

	"github.com/ternarybob/lectio/internal/common"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// RE2 has no lookarounds, so sentence boundaries (terminal punctuation,
	// whitespace, capital letter) are marked with a control byte and split
	// afterwards. Abbreviation-heavy text over-splits occasionally; chunk
	// packing absorbs that.
	sentenceBoundary = regexp.MustCompile(`([.!?])\s+([A-Z])`)
)

// chunker packs sentences into spans of at most size characters, carrying
// up to overlap characters of trailing sentences into the next span so
// retrieved chunks keep local context.
type chunker struct {
	size    int
	overlap int
}

func newChunker(config *common.ChunkingConfig) chunker {
	c := chunker{size: 800, overlap: 100}
	if config != nil {
		if config.ChunkSize > 0 {
			c.size = config.ChunkSize
		}
		if config.ChunkOverlap >= 0 {
			c.overlap = config.ChunkOverlap
		}
	}
	return c
}

func splitSentences(text string) []string {
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x1f$2")
	parts := strings.Split(marked, "\x1f")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// Chunk splits text into sentence-aligned spans. A single sentence longer
// than the chunk size becomes its own oversized chunk rather than being
// cut mid-sentence.
func (c chunker) Chunk(text string) []string {
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" {
		return nil
	}
	sentences := splitSentences(text)

	var chunks []string
	i := 0
	for i < len(sentences) {
		var current []string
		size := 0
		for j := i; j < len(sentences); j++ {
			addition := len(sentences[j])
			if len(current) > 0 {
				addition++ // joining space
			}
			if size+addition > c.size && len(current) > 0 {
				break
			}
			current = append(current, sentences[j])
			size += addition
		}
		if len(current) == 0 {
			i++
			continue
		}
		chunks = append(chunks, strings.Join(current, " "))

		if c.overlap > 0 {
			// Count backwards how many trailing sentences fit in the
			// overlap budget; the next chunk restarts there.
			overlapSize := 0
			overlapCount := 0
			for k := len(current) - 1; k >= 0; k-- {
				sentenceLen := len(current[k])
				if k < len(current)-1 {
					sentenceLen++
				}
				if overlapSize+sentenceLen > c.overlap {
					break
				}
				overlapSize += sentenceLen
				overlapCount++
			}
			next := i + len(current) - overlapCount
			if next <= i {
				next = i + 1
			}
			i = next
		} else {
			i += len(current)
		}
	}
	return chunks
}
