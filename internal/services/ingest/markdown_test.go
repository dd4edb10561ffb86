package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdownText(t *testing.T) {
	source := `# Heading One

A paragraph with **bold** and *italic* text.

- first item
- second item

` + "```go\nfunc main() {}\n```" + `

| Name | Role |
|------|------|
| Alice | Admin |
`

	text, err := extractMarkdownText([]byte(source))
	require.NoError(t, err)

	assert.Contains(t, text, "Heading One")
	assert.Contains(t, text, "A paragraph with bold and italic text.")
	assert.Contains(t, text, "first item")
	assert.Contains(t, text, "func main() {}")
	assert.Contains(t, text, "Alice")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "```")
}

func TestExtractMarkdownText_PreservesLineStructure(t *testing.T) {
	source := "Course Title: MD Course\nCourse Link: https://example.com/md\n\nLesson 0: Intro\nBody line."

	text, err := extractMarkdownText([]byte(source))
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Course Title: MD Course", lines[0])
	assert.Equal(t, "Course Link: https://example.com/md", lines[1])
}

func TestExtractMarkdownText_Empty(t *testing.T) {
	text, err := extractMarkdownText([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, text)
}
