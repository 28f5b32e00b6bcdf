package markup

import (
	"fmt"
	"regexp"
	"strings"
)

// ArtifactScheme prefixes image reference URLs so the assembler resolves
// them through the artifact store instead of the filesystem.
const ArtifactScheme = "artifact:"

// residualDiagramFence matches diagram-tagged fences left in replaced text.
var residualDiagramFence = regexp.MustCompile("(?i)(```|~~~)\\s*" + DiagramTag + "\\b")

// ImageRef links a diagram block (by index into Document.Blocks) to the
// artifact holding its rendered image.
type ImageRef struct {
	BlockIndex int
	ArtifactID string
	Alt        string
}

// ReplaceDiagrams rebuilds the document text, substituting each referenced
// diagram block with a single-line image reference carrying the artifact id.
// Diagram blocks without a reference, and blocks whose recorded span no
// longer addresses a fence in the source, are left untouched and reported in
// skipped; the raw diagram source stays visible rather than being lost.
func ReplaceDiagrams(doc *Document, refs []ImageRef) (replaced string, skipped []int) {
	byBlock := make(map[int]ImageRef, len(refs))
	for _, r := range refs {
		byBlock[r.BlockIndex] = r
	}

	var out strings.Builder
	out.Grow(len(doc.Source))

	for i, b := range doc.Blocks {
		raw, ok := doc.Text(b)
		ref, has := byBlock[i]

		if b.Kind != KindDiagram || !has {
			out.WriteString(raw)
			continue
		}

		if !ok || fenceMarker(firstLine(raw)) == "" {
			// Span drifted out from under us; keep the original source.
			skipped = append(skipped, i)
			out.WriteString(raw)
			continue
		}

		alt := ref.Alt
		if alt == "" {
			alt = "Diagram"
		}
		fmt.Fprintf(&out, "![%s](%s%s)", alt, ArtifactScheme, ref.ArtifactID)
	}

	return out.String(), skipped
}

// ResidualDiagramFences counts diagram-tagged fences remaining in text.
// After a full extract-render-replace pass the count should be zero; a
// nonzero count is a warning condition, not a failure.
func ResidualDiagramFences(text string) int {
	return len(residualDiagramFence.FindAllStringIndex(text, -1))
}

// firstLine returns text up to the first newline.
func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		return text[:idx]
	}
	return text
}
