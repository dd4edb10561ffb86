package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
)

// pdfExtractor pulls text out of PDF transcripts with pdfcpu. pdfcpu has
// no direct text API, so page content is extracted to a scratch directory
// and reassembled in page order.
type pdfExtractor struct {
	tempDir string
	logger  arbor.ILogger
}

func newPDFExtractor(logger arbor.ILogger) *pdfExtractor {
	tempDir := filepath.Join(os.TempDir(), "lectio-pdf")
	os.MkdirAll(tempDir, 0755)
	return &pdfExtractor{tempDir: tempDir, logger: logger}
}

// extractFile returns the text content of a PDF file, pages joined in
// order and separated by blank lines.
func (e *pdfExtractor) extractFile(path string) (string, error) {
	conf := model.NewDefaultConfiguration()

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(e.tempDir, fmt.Sprintf("extract_%d", os.Getpid()))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content from %s: %w", path, err)
	}

	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pageText, ok := pageTexts[pageNum]
		if !ok || pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	e.logger.Debug().
		Str("path", path).
		Int("pages", pageCount).
		Int("text_len", text.Len()).
		Msg("Extracted PDF text")

	return text.String(), nil
}
