package markup

import (
	"strings"
	"testing"
)

func TestExtract_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantTag  string
	}{
		{
			name:     "tagged mermaid fence",
			input:    "```mermaid\ngraph TD\nA-->B\n```",
			wantKind: KindDiagram,
			wantTag:  "mermaid",
		},
		{
			name:     "untagged fence with diagram keyword",
			input:    "```\ngraph TD\nA-->B\n```",
			wantKind: KindDiagram,
			wantTag:  "",
		},
		{
			name:     "unknown tag with diagram keyword",
			input:    "```chart\nflowchart LR\nA-->B\n```",
			wantKind: KindDiagram,
			wantTag:  "chart",
		},
		{
			name:     "programming tag beats keyword content",
			input:    "```go\ngraph := build()\n```",
			wantKind: KindCode,
			wantTag:  "go",
		},
		{
			name:     "python code block",
			input:    "```python\nprint('hi')\n```",
			wantKind: KindCode,
			wantTag:  "python",
		},
		{
			name:     "untagged fence without keyword",
			input:    "```\nsome output\n```",
			wantKind: KindCode,
			wantTag:  "",
		},
		{
			name:     "tilde fence diagram",
			input:    "~~~mermaid\npie\n\"A\": 1\n~~~",
			wantKind: KindDiagram,
			wantTag:  "mermaid",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Extract(tt.input)
			if len(doc.Blocks) != 1 {
				t.Fatalf("Extract() returned %d blocks, want 1", len(doc.Blocks))
			}

			b := doc.Blocks[0]
			if b.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", b.Kind, tt.wantKind)
			}
			if b.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", b.Tag, tt.wantTag)
			}
		})
	}
}

func TestExtract_Partition(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain prose only",
		"before\n\n```mermaid\ngraph TD\n```\n\nafter",
		"```go\ncode\n```\ntrailing",
		"leading\n```mermaid\npie\n```",
		"```mermaid\ngraph TD\nA-->B", // unterminated, closes at EOF
		"a\n```\nx\n```\nb\n```mermaid\nflowchart LR\n```\nc",
	}

	for _, input := range inputs {
		input := input
		doc := Extract(input)

		// Blocks cover the source exactly, in order, with no gaps.
		var rebuilt strings.Builder
		pos := 0
		for i, b := range doc.Blocks {
			if b.Span.Start != pos {
				t.Errorf("input %q: block %d starts at %d, want %d", input, i, b.Span.Start, pos)
			}
			raw, ok := doc.Text(b)
			if !ok {
				t.Fatalf("input %q: block %d span invalid", input, i)
			}
			rebuilt.WriteString(raw)
			pos = b.Span.End
		}
		if pos != len(input) {
			t.Errorf("input %q: blocks end at %d, want %d", input, pos, len(input))
		}
		if rebuilt.String() != input {
			t.Errorf("input %q: concatenated spans differ from source", input)
		}
	}
}

func TestExtract_Content(t *testing.T) {
	t.Parallel()

	input := "intro\n\n```mermaid\ngraph TD\nA-->B\n```\n\noutro"
	doc := Extract(input)

	if len(doc.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(doc.Blocks))
	}

	if doc.Blocks[0].Kind != KindText || doc.Blocks[0].Content != "intro\n\n" {
		t.Errorf("text block = %q (%v)", doc.Blocks[0].Content, doc.Blocks[0].Kind)
	}

	if doc.Blocks[1].Kind != KindDiagram {
		t.Errorf("middle block kind = %v, want diagram", doc.Blocks[1].Kind)
	}
	if doc.Blocks[1].Content != "graph TD\nA-->B\n" {
		t.Errorf("diagram content = %q", doc.Blocks[1].Content)
	}

	if doc.Blocks[2].Kind != KindText || doc.Blocks[2].Content != "\n\noutro" {
		t.Errorf("trailing block = %q (%v)", doc.Blocks[2].Content, doc.Blocks[2].Kind)
	}
}

func TestExtract_MultipleDiagrams(t *testing.T) {
	t.Parallel()

	// Six diagrams of mixed types interleaved with prose and real code.
	input := strings.Join([]string{
		"# Title",
		"",
		"```mermaid\ngraph TD\nA-->B\n```",
		"",
		"```mermaid\nsequenceDiagram\nA->>B: hi\n```",
		"",
		"```go\nfunc main() {}\n```",
		"",
		"```\nflowchart LR\nX-->Y\n```",
		"",
		"```mermaid\ngantt\ntitle Plan\n```",
		"",
		"```mermaid\npie\n\"A\": 1\n```",
		"",
		"```mmd\nerDiagram\nA ||--o{ B : has\n```",
		"",
		"done",
	}, "\n")

	doc := Extract(input)
	indexes := doc.DiagramIndexes()
	if len(indexes) != 6 {
		t.Fatalf("got %d diagram blocks, want 6", len(indexes))
	}

	// Diagram order follows document order.
	wantFirstWords := []string{"graph", "sequenceDiagram", "flowchart", "gantt", "pie", "erDiagram"}
	for i, idx := range indexes {
		content := doc.Blocks[idx].Content
		if !strings.HasPrefix(content, wantFirstWords[i]) {
			t.Errorf("diagram %d content = %q, want prefix %q", i, content, wantFirstWords[i])
		}
	}
}

func TestExtract_IdenticalDiagramsKeepDistinctSpans(t *testing.T) {
	t.Parallel()

	input := "```mermaid\ngraph TD\nA-->B\n```\n\n```mermaid\ngraph TD\nA-->B\n```"
	doc := Extract(input)

	indexes := doc.DiagramIndexes()
	if len(indexes) != 2 {
		t.Fatalf("got %d diagrams, want 2", len(indexes))
	}

	a := doc.Blocks[indexes[0]]
	b := doc.Blocks[indexes[1]]
	if a.Content != b.Content {
		t.Fatal("test requires byte-identical diagram sources")
	}
	if a.Span == b.Span {
		t.Error("identical diagrams must have distinct spans")
	}
}

func TestDocument_Text_InvalidSpan(t *testing.T) {
	t.Parallel()

	doc := &Document{Source: "short"}

	tests := []struct {
		name string
		span Span
	}{
		{name: "negative start", span: Span{Start: -1, End: 2}},
		{name: "end past source", span: Span{Start: 0, End: 99}},
		{name: "inverted", span: Span{Start: 4, End: 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, ok := doc.Text(Block{Span: tt.span}); ok {
				t.Error("Text() accepted invalid span")
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "text"},
		{KindCode, "code"},
		{KindDiagram, "diagram"},
		{Kind(42), "Kind(42)"},
	}

	for _, tt := range tests {
		tt := tt
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
