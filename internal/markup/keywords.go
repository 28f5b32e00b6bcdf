package markup

import "strings"

// DiagramTag is the canonical fence info string for diagram blocks.
// Normalize folds aliases and casing variants to this value so downstream
// stages only ever see one spelling.
const DiagramTag = "mermaid"

// diagramTagAliases maps accepted diagram tag spellings to the canonical tag.
var diagramTagAliases = map[string]string{
	"mermaid":   DiagramTag,
	"mmd":       DiagramTag,
	"mermaidjs": DiagramTag,
}

// diagramKeywords is the single keyword table shared by tagged and untagged
// detection. An untagged or mistagged fence whose first non-blank line starts
// with one of these words is classified as a diagram, so it renders the same
// as a correctly tagged block. Keys are lowercase; matching ignores leading
// whitespace and is case-insensitive.
var diagramKeywords = map[string]struct{}{
	"graph":           {},
	"flowchart":       {},
	"sequencediagram": {},
	"classdiagram":    {},
	"statediagram":    {},
	"statediagram-v2": {},
	"erdiagram":       {},
	"gantt":           {},
	"pie":             {},
	"journey":         {},
	"gitgraph":        {},
	"mindmap":         {},
	"timeline":        {},
	"quadrantchart":   {},
}

// programmingTags are fence info strings always preserved as code blocks,
// even when their first content line happens to start with a diagram keyword
// (e.g. a Go snippet defining a variable named "graph").
var programmingTags = map[string]struct{}{
	"python":     {},
	"javascript": {},
	"java":       {},
	"c":          {},
	"cpp":        {},
	"csharp":     {},
	"ruby":       {},
	"go":         {},
	"rust":       {},
	"php":        {},
	"sql":        {},
	"bash":       {},
	"shell":      {},
	"sh":         {},
	"typescript": {},
	"jsx":        {},
	"tsx":        {},
	"json":       {},
	"xml":        {},
	"yaml":       {},
	"toml":       {},
	"html":       {},
	"css":        {},
	"diff":       {},
	"text":       {},
	"plaintext":  {},
}

// CanonicalTag lowercases a fence info string and resolves diagram tag
// aliases. Non-diagram tags are returned lowercased but otherwise unchanged.
func CanonicalTag(tag string) string {
	lower := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := diagramTagAliases[lower]; ok {
		return canonical
	}
	return lower
}

// IsDiagramTag reports whether tag names a diagram language.
func IsDiagramTag(tag string) bool {
	_, ok := diagramTagAliases[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// IsProgrammingTag reports whether tag names a programming language that must
// be preserved as a code block.
func IsProgrammingTag(tag string) bool {
	_, ok := programmingTags[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// HasDiagramKeyword reports whether the first non-blank line of content
// starts with a known diagram keyword.
func HasDiagramKeyword(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		_, ok := diagramKeywords[firstWord(trimmed)]
		return ok
	}
	return false
}

// firstWord extracts the leading identifier of a line, lowercased.
// Identifiers may contain letters, digits and hyphens (stateDiagram-v2).
func firstWord(line string) string {
	end := 0
	for end < len(line) {
		c := line[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' {
			end++
			continue
		}
		break
	}
	return strings.ToLower(line[:end])
}
