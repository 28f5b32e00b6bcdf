package markup

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Normalize repairs common markdown fence damage so the extractor sees a
// well-formed document: CRLF normalization, unterminated fences closed,
// diagram tag aliases folded to the canonical tag, and blank-line separation
// around fences (parsers otherwise merge a fence into the preceding
// paragraph). Normalize is total and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(source string) string {
	s := normalizeLineEndings(source)
	s = closeUnbalancedFences(s)
	s = normalizeDiagramTags(s)
	s = ensureBlankAroundFences(s)
	s = compressBlankLines(s)
	return s
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// fenceMarker returns the fence marker ("```" or "~~~") that opens or closes
// a fence on this line, or "" if the line is not fence-like.
func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return "```"
	case strings.HasPrefix(trimmed, "~~~"):
		return "~~~"
	default:
		return ""
	}
}

// fenceInfo returns the info string following the fence marker, trimmed.
func fenceInfo(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	marker := fenceMarker(line)
	return strings.TrimSpace(strings.TrimLeft(trimmed[len(marker):], "`~"))
}

// closeUnbalancedFences appends a closing fence when a document ends inside
// an open fence. Any fence-like line terminates the open fence, so a stray
// opener is closed at the next fence or at end of document.
func closeUnbalancedFences(content string) string {
	open := ""
	for _, line := range strings.Split(content, "\n") {
		marker := fenceMarker(line)
		if marker == "" {
			continue
		}
		if open == "" {
			open = marker
		} else {
			open = ""
		}
	}
	if open == "" {
		return content
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + open + "\n"
}

// normalizeDiagramTags rewrites opening fence lines whose info string is a
// diagram tag variant (case or alias) to the canonical diagram tag.
func normalizeDiagramTags(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false
	for i, line := range lines {
		marker := fenceMarker(line)
		if marker == "" {
			continue
		}
		if inFence {
			inFence = false
			continue
		}
		inFence = true
		info := fenceInfo(line)
		if info == "" || !IsDiagramTag(info) {
			continue
		}
		canonical := CanonicalTag(info)
		if info == canonical {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		lines[i] = indent + marker + canonical
	}
	return strings.Join(lines, "\n")
}

// ensureBlankAroundFences inserts a blank line before opening fences and
// after closing fences when the neighbouring line is non-blank. Without the
// separation, some markdown parsers attach the fence to the preceding
// paragraph instead of opening a code block.
func ensureBlankAroundFences(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	inFence := false

	for i, line := range lines {
		marker := fenceMarker(line)
		if marker == "" {
			result = append(result, line)
			continue
		}

		if !inFence {
			// Opening fence: separate from preceding text.
			if len(result) > 0 && strings.TrimSpace(result[len(result)-1]) != "" {
				result = append(result, "")
			}
			result = append(result, line)
			inFence = true
			continue
		}

		// Closing fence: separate from following text.
		result = append(result, line)
		inFence = false
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			result = append(result, "")
		}
	}

	return strings.Join(result, "\n")
}
