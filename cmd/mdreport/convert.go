package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mdreport "github.com/alnah/go-mdreport"
	"github.com/alnah/go-mdreport/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidExtension   = errors.New("file must have .md, .markdown, or .pdf extension")
	ErrInvalidSourceKind  = errors.New("invalid --from value")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input mdreport.Input) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Converter = (*mdreport.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Converter
	Release(Converter)
	Size() int
}

// servicePool adapts mdreport.ServicePool to the CLI Pool interface.
type servicePool struct {
	inner *mdreport.ServicePool
}

var _ Pool = (*servicePool)(nil)

func (p *servicePool) Acquire() Converter { return p.inner.Acquire() }

func (p *servicePool) Release(c Converter) {
	if svc, ok := c.(*mdreport.Service); ok {
		p.inner.Release(svc)
	}
}

func (p *servicePool) Size() int { return p.inner.Size() }

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Source     string // mdreport.SourceMarkdown or mdreport.SourcePDF
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// conversionParams groups parameters shared across the batch.
type conversionParams struct {
	css     string
	title   string
	page    *mdreport.PageSettings
	timeout time.Duration
}

// run orchestrates the conversion process.
func run(ctx context.Context, flags *convertFlags, args []string) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Resolve input path
	inputPath, err := resolveInputPath(args, cfg)
	if err != nil {
		return err
	}

	// Resolve output directory
	outputDir := resolveOutputDir(flags.output, cfg)

	sourceKind, err := resolveSourceKind(flags.from)
	if err != nil {
		return err
	}

	// Discover files to convert
	files, err := discoverFiles(inputPath, outputDir, sourceKind)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no convertible files found in %s", inputPath)
	}

	cssContent, err := resolveCSSContent(flags.css, cfg)
	if err != nil {
		return err
	}

	pageData, err := buildPageSettings(flags, cfg)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout)
	if err != nil {
		return err
	}

	opts, err := buildServiceOptions(flags, cfg, timeout)
	if err != nil {
		return err
	}

	poolSize := mdreport.ResolvePoolSize(resolveWorkers(flags.workers, cfg))
	if flags.common.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := mdreport.NewServicePool(poolSize, opts...)
	defer pool.Close()

	params := &conversionParams{
		css:     cssContent,
		title:   flags.title,
		page:    pageData,
		timeout: timeout,
	}

	results := convertBatch(ctx, &servicePool{inner: pool}, files, params)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveSourceKind validates the --from flag. Empty or "auto" means detect
// per file from its extension.
func resolveSourceKind(from string) (string, error) {
	switch strings.ToLower(from) {
	case "", "auto":
		return "", nil
	case mdreport.SourceMarkdown:
		return mdreport.SourceMarkdown, nil
	case mdreport.SourcePDF:
		return mdreport.SourcePDF, nil
	}
	return "", fmt.Errorf("%w: %q (must be auto, markdown, or pdf)", ErrInvalidSourceKind, from)
}

// resolveCSSContent reads extra CSS from the flag path or the config path.
// Priority: CLI flag > config style path.
func resolveCSSContent(cssFile string, cfg *config.Config) (string, error) {
	path := cssFile
	if path == "" {
		path = cfg.Style.Path
	}
	if path == "" {
		return "", nil
	}

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// resolveTimeout parses the --timeout flag. Zero means library default.
func resolveTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q (use forms like 30s, 2m)", s)
	}
	return d, nil
}

// resolveWorkers returns the pool size source: flag wins over config.
func resolveWorkers(flagWorkers int, cfg *config.Config) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return cfg.Render.Workers
}

// buildServiceOptions translates flags and config into service options.
func buildServiceOptions(flags *convertFlags, cfg *config.Config, timeout time.Duration) ([]mdreport.Option, error) {
	var opts []mdreport.Option

	if timeout > 0 {
		opts = append(opts, mdreport.WithTimeout(timeout))
	}

	renderTimeout := time.Duration(cfg.Render.TimeoutSeconds) * time.Second
	if flags.render.timeout != "" {
		d, err := time.ParseDuration(flags.render.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid render timeout %q (use forms like 3s)", flags.render.timeout)
		}
		renderTimeout = d
	}
	if renderTimeout > 0 {
		opts = append(opts, mdreport.WithRenderTimeout(renderTimeout))
	}

	renderWorkers := cfg.Render.Workers
	if flags.render.workers > 0 {
		renderWorkers = flags.render.workers
	}
	if renderWorkers > 0 {
		opts = append(opts, mdreport.WithRenderWorkers(renderWorkers))
	}

	if cfg.Artifacts.TTLMinutes > 0 {
		opts = append(opts, mdreport.WithArtifactTTL(time.Duration(cfg.Artifacts.TTLMinutes)*time.Minute))
	}
	if cfg.Limits.MaxInputMiB > 0 {
		opts = append(opts, mdreport.WithMaxInputSize(cfg.Limits.MaxInputMiB<<20))
	}

	return opts, nil
}

// buildPageSettings creates mdreport.PageSettings from flags and config.
func buildPageSettings(flags *convertFlags, cfg *config.Config) (*mdreport.PageSettings, error) {
	hasFlags := flags.page.size != "" || flags.page.orientation != "" || flags.page.margin > 0
	hasConfig := cfg.Page.Size != "" || cfg.Page.Orientation != "" || cfg.Page.Margin > 0

	if !hasFlags && !hasConfig {
		return nil, nil
	}

	ps := &mdreport.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}

	// CLI flags override config
	if flags.page.size != "" {
		ps.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		ps.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		ps.Margin = flags.page.margin
	}

	// Apply defaults
	if ps.Size == "" {
		ps.Size = mdreport.PageSizeLetter
	}
	if ps.Orientation == "" {
		ps.Orientation = mdreport.OrientationPortrait
	}
	if ps.Margin == 0 {
		ps.Margin = mdreport.DefaultMargin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}

	return ps, nil
}

// sourceForExtension maps a file extension to a source kind.
// Returns "" for extensions that are not convertible.
func sourceForExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return mdreport.SourceMarkdown
	case ".pdf":
		return mdreport.SourcePDF
	}
	return ""
}

// discoverFiles finds all files to convert. forcedKind, when non-empty,
// overrides per-file extension detection.
func discoverFiles(inputPath, outputDir, forcedKind string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		kind := forcedKind
		if kind == "" {
			kind = sourceForExtension(inputPath)
		}
		if kind == "" {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath, Source: kind}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		kind := sourceForExtension(path)
		if kind == "" {
			return nil
		}
		if forcedKind != "" && kind != forcedKind {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath, Source: kind})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for an input file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	// PDF inputs produce a sibling name that cannot clobber the source.
	if strings.EqualFold(ext, ".pdf") {
		base += ".report"
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdreport.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdreport.MaxPoolSize)
	}
	return nil
}

// convertBatch processes files concurrently using the service pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, svc, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, service Converter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	title := params.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(f.InputPath), filepath.Ext(f.InputPath))
	}

	convertCtx := ctx
	if params.timeout > 0 {
		var cancel context.CancelFunc
		convertCtx, cancel = context.WithTimeout(ctx, params.timeout)
		defer cancel()
	}

	pdfBytes, err := service.Convert(convertCtx, mdreport.Input{
		Content: content,
		Source:  f.Source,
		Title:   title,
		CSS:     params.css,
		Page:    params.page,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, pdfBytes, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(os.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(os.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(os.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
