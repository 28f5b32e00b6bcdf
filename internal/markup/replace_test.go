package markup

import (
	"strings"
	"testing"
)

func TestReplaceDiagrams(t *testing.T) {
	t.Parallel()

	input := "intro\n\n```mermaid\ngraph TD\nA-->B\n```\n\noutro"
	doc := Extract(input)

	indexes := doc.DiagramIndexes()
	if len(indexes) != 1 {
		t.Fatalf("got %d diagrams, want 1", len(indexes))
	}

	refs := []ImageRef{{BlockIndex: indexes[0], ArtifactID: "abc-123", Alt: "Diagram 1"}}
	replaced, skipped := ReplaceDiagrams(doc, refs)

	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	want := "intro\n\n![Diagram 1](artifact:abc-123)\n\noutro"
	if replaced != want {
		t.Errorf("replaced = %q, want %q", replaced, want)
	}
}

func TestReplaceDiagrams_PositionalNotContentBased(t *testing.T) {
	t.Parallel()

	// Two byte-identical diagrams must map to their own artifacts.
	input := "```mermaid\ngraph TD\nA-->B\n```\n\n```mermaid\ngraph TD\nA-->B\n```"
	doc := Extract(input)

	indexes := doc.DiagramIndexes()
	if len(indexes) != 2 {
		t.Fatalf("got %d diagrams, want 2", len(indexes))
	}

	refs := []ImageRef{
		{BlockIndex: indexes[0], ArtifactID: "first", Alt: "Diagram 1"},
		{BlockIndex: indexes[1], ArtifactID: "second", Alt: "Diagram 2"},
	}
	replaced, skipped := ReplaceDiagrams(doc, refs)

	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}

	firstPos := strings.Index(replaced, "artifact:first")
	secondPos := strings.Index(replaced, "artifact:second")
	if firstPos == -1 || secondPos == -1 {
		t.Fatalf("missing artifact references in %q", replaced)
	}
	if firstPos > secondPos {
		t.Error("artifact references out of document order")
	}
}

func TestReplaceDiagrams_NoRefKeepsSource(t *testing.T) {
	t.Parallel()

	input := "```mermaid\ngraph TD\n```"
	doc := Extract(input)

	replaced, skipped := ReplaceDiagrams(doc, nil)

	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none (unreferenced blocks are not skips)", skipped)
	}
	if replaced != input {
		t.Errorf("replaced = %q, want original source", replaced)
	}
}

func TestReplaceDiagrams_DriftedSpanSkipped(t *testing.T) {
	t.Parallel()

	input := "text\n\n```mermaid\ngraph TD\n```"
	doc := Extract(input)
	indexes := doc.DiagramIndexes()

	// Corrupt the recorded span so it no longer addresses a fence.
	doc.Blocks[indexes[0]].Span = Span{Start: 0, End: 4}

	refs := []ImageRef{{BlockIndex: indexes[0], ArtifactID: "abc", Alt: "Diagram 1"}}
	replaced, skipped := ReplaceDiagrams(doc, refs)

	if len(skipped) != 1 || skipped[0] != indexes[0] {
		t.Fatalf("skipped = %v, want [%d]", skipped, indexes[0])
	}
	if strings.Contains(replaced, "artifact:") {
		t.Error("drifted block must not be replaced")
	}
	if !strings.Contains(replaced, "text") {
		t.Error("span text must stay visible")
	}
}

func TestReplaceDiagrams_InvalidSpanSkipped(t *testing.T) {
	t.Parallel()

	input := "```mermaid\ngraph TD\n```"
	doc := Extract(input)

	doc.Blocks[0].Span = Span{Start: 0, End: len(input) + 10}

	refs := []ImageRef{{BlockIndex: 0, ArtifactID: "abc"}}
	_, skipped := ReplaceDiagrams(doc, refs)

	if len(skipped) != 1 {
		t.Fatalf("skipped = %v, want one entry", skipped)
	}
}

func TestReplaceDiagrams_DefaultAlt(t *testing.T) {
	t.Parallel()

	doc := Extract("```mermaid\npie\n```")
	refs := []ImageRef{{BlockIndex: 0, ArtifactID: "xyz"}}

	replaced, _ := ReplaceDiagrams(doc, refs)
	if !strings.Contains(replaced, "![Diagram](artifact:xyz)") {
		t.Errorf("replaced = %q, want default alt text", replaced)
	}
}

func TestResidualDiagramFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "none", text: "plain text\n```go\ncode\n```", want: 0},
		{name: "one backtick fence", text: "```mermaid\ngraph TD\n```", want: 1},
		{name: "one tilde fence", text: "~~~mermaid\npie\n~~~", want: 1},
		{name: "case insensitive", text: "```MERMAID\ngraph\n```", want: 1},
		{name: "two fences", text: "```mermaid\na\n```\n```mermaid\nb\n```", want: 2},
		{name: "word boundary", text: "```mermaidish\n```", want: 0},
		{name: "empty", text: "", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResidualDiagramFences(tt.text); got != tt.want {
				t.Errorf("ResidualDiagramFences(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
