package mdreport

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-mdreport/internal/ingest"
)

// Source kind constants for Input.Source.
const (
	SourceMarkdown = string(ingest.SourceMarkdown)
	SourcePDF      = string(ingest.SourcePDF)
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Input contains conversion parameters.
type Input struct {
	Content []byte        // Raw document content (required)
	Source  string        // Source kind: SourceMarkdown (default when empty) or SourcePDF
	Title   string        // Document title for page metadata (optional)
	CSS     string        // Custom CSS appended after the default stylesheet (optional)
	Page    *PageSettings // Page settings (optional, nil = defaults)
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout       time.Duration // whole-conversion upper bound
	renderTimeout time.Duration // per-diagram upper bound
	renderWorkers int
	artifactTTL   time.Duration
	maxInputSize  int
	stylesheet    string // overrides the embedded default when non-empty
}

// Defaults used when no option overrides them.
const (
	defaultTimeout = 30 * time.Second
)

// WithTimeout sets the whole-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdreport: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithRenderTimeout sets the per-diagram render timeout. A render exceeding
// it is treated as failed and substituted with a placeholder.
func WithRenderTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdreport: WithRenderTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.renderTimeout = d
	}
}

// WithRenderWorkers caps concurrent diagram rendering sessions within one
// document.
func WithRenderWorkers(n int) Option {
	return func(s *Service) {
		s.cfg.renderWorkers = n
	}
}

// WithArtifactTTL sets how long intermediate artifacts survive before the
// sweep removes them.
func WithArtifactTTL(d time.Duration) Option {
	return func(s *Service) {
		s.cfg.artifactTTL = d
	}
}

// WithMaxInputSize sets the maximum accepted input size in bytes. Oversized
// inputs are rejected before any rendering work.
func WithMaxInputSize(n int) Option {
	return func(s *Service) {
		s.cfg.maxInputSize = n
	}
}

// WithStylesheet replaces the embedded default stylesheet.
func WithStylesheet(css string) Option {
	return func(s *Service) {
		s.cfg.stylesheet = css
	}
}

// WithLogger sets the structured logger used for per-document warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
