package mdreport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-mdreport/internal/artifact"
	"github.com/alnah/go-mdreport/internal/assets"
	"github.com/alnah/go-mdreport/internal/diagram"
	"github.com/alnah/go-mdreport/internal/ingest"
	"github.com/alnah/go-mdreport/internal/markup"
)

// Compile-time interface implementation checks.
var (
	_ htmlConverter    = (*goldmarkConverter)(nil)
	_ cssInjector      = (*cssInjection)(nil)
	_ pdfConverter     = (*rodConverter)(nil)
	_ diagram.Renderer = (*diagram.RodRenderer)(nil)
	_ diagram.Renderer = (*diagram.Placeholder)(nil)
	_ diagram.Sink     = (*artifact.Store)(nil)
	_ artifactResolver = (*artifact.Store)(nil)
)

// Service orchestrates the diagram-aware document conversion pipeline:
// ingest, normalize, extract, render, replace, sanitize, assemble. Stages
// run in strict sequence for one document; diagram rendering within a
// document fans out to a small bounded worker pool.
type Service struct {
	cfg    serviceConfig
	logger *slog.Logger

	store         *artifact.Store
	diagrams      diagram.Renderer // live backend; nil degrades to placeholders
	fallback      diagram.Renderer
	htmlConverter htmlConverter
	cssInjector   cssInjector
	pdfConverter  pdfConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithRenderTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:       defaultTimeout,
			renderTimeout: diagram.DefaultRenderTimeout,
			renderWorkers: diagram.DefaultWorkers,
			artifactTTL:   artifact.DefaultTTL,
			maxInputSize:  ingest.DefaultMaxInputSize,
		},
		htmlConverter: newGoldmarkConverter(),
		cssInjector:   &cssInjection{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.store == nil {
		s.store = artifact.NewStore(s.cfg.artifactTTL)
	}
	if s.fallback == nil {
		s.fallback = diagram.NewPlaceholder()
	}

	// Create browser-backed stages if not injected (e.g., by tests)
	if s.diagrams == nil {
		s.diagrams = diagram.NewRodRenderer(s.cfg.renderTimeout)
	}
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Convert runs the full pipeline and returns the assembled PDF as bytes.
// The context is used for cancellation and timeout.
//
// Per-diagram failures never fail the document: failed or timed-out renders
// are substituted with placeholder images and logged. Only input validation
// and assembly (HTML conversion, PDF printing) errors are returned.
func (s *Service) Convert(ctx context.Context, input Input) ([]byte, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	source := input.Source
	if source == "" {
		source = SourceMarkdown
	}

	// Expire leftovers from earlier requests before taking on new work.
	s.store.Sweep(time.Now())

	text, err := ingest.Ingest(input.Content, ingest.SourceKind(source), s.cfg.maxInputSize)
	if err != nil {
		return nil, err
	}

	normalized := markup.Normalize(text)
	doc := markup.Extract(normalized)

	// Render stage: RenderAll is the barrier; every job is terminal when it
	// returns. Artifacts for this request are released once the PDF is built.
	jobs := buildJobs(doc)
	diagram.RenderAll(ctx, jobs, s.diagrams, s.fallback, s.cfg.renderWorkers, s.store, s.logger)
	defer s.releaseArtifacts(jobs)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	refs := make([]markup.ImageRef, 0, len(jobs))
	for i, j := range jobs {
		if j.ArtifactID == "" {
			continue
		}
		refs = append(refs, markup.ImageRef{
			BlockIndex: j.BlockIndex,
			ArtifactID: j.ArtifactID,
			Alt:        fmt.Sprintf("Diagram %d", i+1),
		})
	}

	replaced, skipped := markup.ReplaceDiagrams(doc, refs)
	for _, idx := range skipped {
		s.logger.Warn("diagram block no longer matches its span; leaving source visible", "block", idx)
	}
	if n := markup.ResidualDiagramFences(replaced); n > 0 {
		s.logger.Warn("diagram fences remain after replacement", "count", n)
	}

	sanitized := markup.Sanitize(replaced)

	htmlContent, err := s.htmlConverter.ToHTML(ctx, sanitized)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Resolve artifact ids to inline data URIs; the printing browser never
	// sees a filesystem path for rendered images.
	htmlContent = embedArtifacts(htmlContent, s.store, s.logger)

	css := s.stylesheet() + "\n" + buildPrintCSS()
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	htmlContent = s.cssInjector.InjectCSS(ctx, htmlContent, css)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	pdfBytes, err := s.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Page:  input.Page,
		Title: input.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	return pdfBytes, nil
}

// Close releases resources (headless Chrome browsers).
func (s *Service) Close() error {
	var errs []error
	if s.diagrams != nil {
		if err := s.diagrams.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.pdfConverter != nil {
		if err := s.pdfConverter.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// validateInput checks that required fields are present and valid.
func (s *Service) validateInput(input Input) error {
	if len(input.Content) == 0 {
		return ErrEmptyContent
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return nil
}

// stylesheet returns the CSS base for assembly.
func (s *Service) stylesheet() string {
	if s.cfg.stylesheet != "" {
		return s.cfg.stylesheet
	}
	return assets.ReportCSS
}

// releaseArtifacts deletes the images stored for a completed request.
// Abandoned entries (e.g., after a mid-pipeline error) are caught by the
// TTL sweep instead.
func (s *Service) releaseArtifacts(jobs []*diagram.Job) {
	for _, j := range jobs {
		if j.ArtifactID != "" {
			s.store.Delete(j.ArtifactID)
		}
	}
}

// buildJobs creates one render job per diagram block, tracked by block
// position so byte-identical diagrams cannot be confused.
func buildJobs(doc *markup.Document) []*diagram.Job {
	indexes := doc.DiagramIndexes()
	jobs := make([]*diagram.Job, 0, len(indexes))
	for _, idx := range indexes {
		jobs = append(jobs, &diagram.Job{
			BlockIndex: idx,
			Source:     doc.Blocks[idx].Content,
		})
	}
	return jobs
}
