// Package markup implements the document model for diagram-aware markdown
// processing: normalization, block extraction, diagram replacement and
// residual sanitization. Blocks partition the normalized source exactly,
// which lets replacement operate on recorded spans instead of searching for
// content (two byte-identical diagrams can never be confused).
package markup

import "fmt"

// Kind classifies a block of the document.
type Kind int

const (
	// KindText is prose outside any fence.
	KindText Kind = iota
	// KindCode is a fenced block kept as a code listing.
	KindCode
	// KindDiagram is a fenced block to be rendered as an image.
	KindDiagram
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCode:
		return "code"
	case KindDiagram:
		return "diagram"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span is a half-open byte range [Start, End) into the document source.
type Span struct {
	Start int
	End   int
}

// Block is one region of the document. Blocks are created by Extract and
// never mutated afterwards; replacement builds a new string rather than
// editing blocks in place.
type Block struct {
	Kind    Kind
	Tag     string // canonical fence info string ("mermaid", "go", "" for untagged)
	Content string // inner fence content for code/diagram blocks, raw text otherwise
	Span    Span
}

// Document is an ordered, gapless partition of its source text.
// Concatenating the span text of all blocks in order reproduces Source.
type Document struct {
	Source string
	Blocks []Block
}

// Text returns the raw source text covered by the block's span, and whether
// the span still addresses a valid range of the source.
func (d *Document) Text(b Block) (string, bool) {
	if b.Span.Start < 0 || b.Span.End > len(d.Source) || b.Span.Start > b.Span.End {
		return "", false
	}
	return d.Source[b.Span.Start:b.Span.End], true
}

// DiagramIndexes returns the positions of diagram blocks in document order.
func (d *Document) DiagramIndexes() []int {
	var idx []int
	for i, b := range d.Blocks {
		if b.Kind == KindDiagram {
			idx = append(idx, i)
		}
	}
	return idx
}
