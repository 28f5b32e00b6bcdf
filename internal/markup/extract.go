package markup

import "strings"

// Extract partitions source into text, code and diagram blocks. The blocks
// cover the entire source with no gaps and no overlaps, in document order.
// Extract never fails; malformed input simply yields text blocks.
//
// A fenced block is a diagram when its tag is a known diagram language, or
// when it is untagged (or carries an unknown tag) and its first non-blank
// content line starts with a diagram keyword. Fences tagged with a
// programming language are always code, regardless of content.
func Extract(source string) *Document {
	doc := &Document{Source: source}
	n := len(source)
	textStart := 0
	i := 0

	for i < n {
		line, next := scanLine(source, i)
		if fenceMarker(line) == "" {
			i = next
			continue
		}

		openStart := i
		tag := firstWord(fenceInfo(line))
		contentStart := next

		// Find the closing fence; an unterminated fence closes at EOF.
		contentEnd, blockEnd := n, n
		j := next
		for j < n {
			inner, innerNext := scanLine(source, j)
			if fenceMarker(inner) != "" {
				contentEnd = j
				blockEnd = j + len(inner)
				break
			}
			j = innerNext
		}

		if openStart > textStart {
			doc.Blocks = append(doc.Blocks, Block{
				Kind:    KindText,
				Content: source[textStart:openStart],
				Span:    Span{Start: textStart, End: openStart},
			})
		}

		content := ""
		if contentStart < contentEnd {
			content = source[contentStart:contentEnd]
		}
		doc.Blocks = append(doc.Blocks, Block{
			Kind:    classifyFence(tag, content),
			Tag:     tag,
			Content: content,
			Span:    Span{Start: openStart, End: blockEnd},
		})

		textStart = blockEnd
		i = blockEnd
	}

	if textStart < n {
		doc.Blocks = append(doc.Blocks, Block{
			Kind:    KindText,
			Content: source[textStart:],
			Span:    Span{Start: textStart, End: n},
		})
	}

	return doc
}

// scanLine returns the line starting at offset i (without its newline) and
// the offset of the next line start.
func scanLine(source string, i int) (line string, next int) {
	if idx := strings.IndexByte(source[i:], '\n'); idx != -1 {
		return source[i : i+idx], i + idx + 1
	}
	return source[i:], len(source)
}

// classifyFence decides the kind of a fenced block. Tagged and untagged
// detection share one keyword table, so an untagged diagram is classified
// identically to a tagged one.
func classifyFence(tag, content string) Kind {
	switch {
	case IsDiagramTag(tag):
		return KindDiagram
	case tag != "" && IsProgrammingTag(tag):
		return KindCode
	case HasDiagramKeyword(content):
		return KindDiagram
	default:
		return KindCode
	}
}
