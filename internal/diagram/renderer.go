// Package diagram renders mermaid diagram descriptions to PNG images. The
// rendering backend is a capability behind the Renderer interface with two
// implementations: a live headless-Chrome session (RodRenderer) and a
// deterministic placeholder (Placeholder) used when the live backend is
// unavailable or a render fails.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for render outcomes.
var (
	// ErrBackendUnavailable means the rendering backend could not be
	// reached at all; the whole stage degrades to placeholders.
	ErrBackendUnavailable = errors.New("diagram backend unavailable")
	// ErrRenderFailed means a single diagram failed to render.
	ErrRenderFailed = errors.New("diagram render failed")
)

// Status is the lifecycle state of a render job.
type Status int

const (
	// StatusPending means the job has not reached a terminal state.
	StatusPending Status = iota
	// StatusRendered means the live backend produced an image.
	StatusRendered
	// StatusFailed means the live render failed or was skipped; the job may
	// still carry a placeholder artifact.
	StatusFailed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRendered:
		return "rendered"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Job tracks the rendering of one diagram block. Created by the caller from
// extracted diagram blocks, mutated only by RenderAll, terminal on rendered
// or failed.
type Job struct {
	BlockIndex int    // index of the diagram block in the extracted document
	Source     string // diagram description text
	Status     Status
	ArtifactID string // set when an image (real or placeholder) was stored
	Err        error  // failure cause, when Status is StatusFailed
}

// Renderer renders one diagram description to PNG bytes. Implementations
// must be safe for concurrent use; every call carries an enforced upper
// bound on duration.
type Renderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
	Close() error
}

// longArrow normalizes the over-long arrow variant LLMs tend to emit.
var longArrow = regexp.MustCompile(`-{3,}>`)

// cleanSource applies small syntax touch-ups to a diagram description before
// rendering: arrow normalization, trailing whitespace removal and blank-line
// stripping.
func cleanSource(source string) string {
	fixed := longArrow.ReplaceAllString(strings.TrimSpace(source), "-->")

	lines := strings.Split(fixed, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// DiagramType returns the leading keyword of a diagram description, used to
// label placeholders ("graph", "sequenceDiagram", ...). Returns "diagram"
// when the source is empty.
func DiagramType(source string) string {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if fields := strings.Fields(trimmed); len(fields) > 0 {
			return fields[0]
		}
	}
	return "diagram"
}
