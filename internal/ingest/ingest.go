// Package ingest normalizes accepted inputs into a single markdown string.
// Markdown passes through unchanged; PDF inputs have their embedded text
// layer extracted page by page with a page-header marker per original page.
// Scanned (image-only) PDFs have no text layer and yield empty pages.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxInputSize is the default upper bound on accepted input (16 MiB).
// Oversized inputs are rejected before any rendering work is attempted.
const DefaultMaxInputSize = 16 << 20

// SourceKind identifies how the raw input should be interpreted.
type SourceKind string

const (
	// SourceMarkdown is native markdown text.
	SourceMarkdown SourceKind = "markdown"
	// SourcePDF is a binary PDF whose text layer is extracted page by page.
	SourcePDF SourceKind = "pdf"
)

// Sentinel errors for input validation.
var (
	ErrInputTooLarge     = errors.New("input exceeds maximum size")
	ErrUnsupportedSource = errors.New("unsupported source kind")
	ErrPDFExtract        = errors.New("PDF text extraction failed")
)

// Ingest converts raw content into markdown according to kind. maxSize of 0
// means DefaultMaxInputSize; the size check runs before any parsing.
func Ingest(content []byte, kind SourceKind, maxSize int) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxInputSize
	}
	if len(content) > maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(content), maxSize)
	}

	switch kind {
	case SourceMarkdown:
		return string(content), nil
	case SourcePDF:
		return extractPDFText(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, kind)
	}
}

// extractPDFText pulls the text layer out of a PDF, one markdown section per
// page. Pages without extractable text are skipped.
func extractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPDFExtract, err)
	}

	fonts := make(map[string]*pdf.Font)
	var sections []string

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrPDFExtract, i, err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			sections = append(sections, fmt.Sprintf("# Page %d\n\n%s\n", i, trimmed))
		}
	}

	return strings.Join(sections, "\n"), nil
}
