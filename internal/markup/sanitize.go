package markup

import "strings"

// Sanitize is the second-pass safety net run after replacement: it
// re-extracts the document and removes any fenced block that still matches a
// diagram signature, while preserving programming-language code blocks and
// everything already converted to image references. Blocks the extractor
// classifies as text or code pass through byte-for-byte.
func Sanitize(source string) string {
	doc := Extract(source)

	var out strings.Builder
	out.Grow(len(source))
	for _, b := range doc.Blocks {
		if b.Kind == KindDiagram {
			continue
		}
		raw, ok := doc.Text(b)
		if !ok {
			continue
		}
		out.WriteString(raw)
	}

	return compressBlankLines(out.String())
}
