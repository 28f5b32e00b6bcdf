package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	mdreport "github.com/alnah/go-mdreport"
	"github.com/alnah/go-mdreport/internal/config"
)

// fakeConverter records inputs and returns canned PDF bytes.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []mdreport.Input
	err    error
}

func (f *fakeConverter) Convert(_ context.Context, input mdreport.Input) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

// fakePool hands out a single shared converter.
type fakePool struct {
	conv Converter
	size int
}

func (p *fakePool) Acquire() Converter  { return p.conv }
func (p *fakePool) Release(_ Converter) {}
func (p *fakePool) Size() int           { return p.size }

func TestSourceForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"doc.md", mdreport.SourceMarkdown},
		{"doc.markdown", mdreport.SourceMarkdown},
		{"DOC.MD", mdreport.SourceMarkdown},
		{"scan.pdf", mdreport.SourcePDF},
		{"scan.PDF", mdreport.SourcePDF},
		{"notes.txt", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		tt := tt
		if got := sourceForExtension(tt.path); got != tt.want {
			t.Errorf("sourceForExtension(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolveSourceKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    string
		want    string
		wantErr bool
	}{
		{from: "", want: ""},
		{from: "auto", want: ""},
		{from: "AUTO", want: ""},
		{from: "markdown", want: mdreport.SourceMarkdown},
		{from: "pdf", want: mdreport.SourcePDF},
		{from: "docx", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		got, err := resolveSourceKind(tt.from)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSourceKind) {
				t.Errorf("resolveSourceKind(%q) error = %v, want ErrInvalidSourceKind", tt.from, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolveSourceKind(%q) = %q, %v, want %q", tt.from, got, err, tt.want)
		}
	}
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		want         string
	}{
		{
			name:      "sibling pdf by default",
			inputPath: filepath.Join("docs", "readme.md"),
			want:      filepath.Join("docs", "readme.pdf"),
		},
		{
			name:      "explicit output file",
			inputPath: "readme.md",
			outputDir: filepath.Join("out", "final.pdf"),
			want:      filepath.Join("out", "final.pdf"),
		},
		{
			name:      "output directory",
			inputPath: filepath.Join("docs", "readme.md"),
			outputDir: "out",
			want:      filepath.Join("out", "readme.pdf"),
		},
		{
			name:         "directory structure preserved",
			inputPath:    filepath.Join("docs", "sub", "page.md"),
			outputDir:    "out",
			baseInputDir: "docs",
			want:         filepath.Join("out", "sub", "page.pdf"),
		},
		{
			name:      "pdf input cannot clobber itself",
			inputPath: filepath.Join("docs", "scan.pdf"),
			want:      filepath.Join("docs", "scan.report.pdf"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := discoverFiles(path, "", "")
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].Source != mdreport.SourceMarkdown {
		t.Errorf("Source = %q, want markdown", files[0].Source)
	}
}

func TestDiscoverFiles_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := discoverFiles(path, "", "")
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("error = %v, want ErrInvalidExtension", err)
	}
}

func TestDiscoverFiles_ForcedKindOverridesExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.txt")
	if err := os.WriteFile(path, []byte("# extracted text"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := discoverFiles(path, "", mdreport.SourceMarkdown)
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if files[0].Source != mdreport.SourceMarkdown {
		t.Errorf("Source = %q, want forced markdown", files[0].Source)
	}
}

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWrite := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("a.md")
	mustWrite("b.markdown")
	mustWrite("c.pdf")
	mustWrite("ignored.txt")

	files, err := discoverFiles(dir, "", "")
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}

	// Forcing a kind filters the other extensions out.
	files, err = discoverFiles(dir, "", mdreport.SourcePDF)
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if len(files) != 1 || files[0].Source != mdreport.SourcePDF {
		t.Errorf("forced pdf discovery = %+v", files)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		workers int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{mdreport.MaxPoolSize, false},
		{-1, true},
		{mdreport.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		tt := tt
		err := validateWorkers(tt.workers)
		if tt.wantErr && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", tt.workers, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("validateWorkers(%d) = %v, want nil", tt.workers, err)
		}
	}
}

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToConvert
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		name := name
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("# "+name), 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: filepath.Join(dir, "out", name+".pdf"),
			Source:     mdreport.SourceMarkdown,
		})
	}

	conv := &fakeConverter{}
	pool := &fakePool{conv: conv, size: 2}

	results := convertBatch(context.Background(), pool, files, &conversionParams{})

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for _, r := range results {
		r := r
		if r.Err != nil {
			t.Errorf("%s: %v", r.InputPath, r.Err)
		}
		if !fileExists(r.OutputPath) {
			t.Errorf("output %s not written", r.OutputPath)
		}
	}
}

func TestConvertBatch_FailuresReported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	if err := os.WriteFile(path, []byte("# a"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := &fakeConverter{err: mdreport.ErrPDFGeneration}
	pool := &fakePool{conv: conv, size: 1}
	files := []FileToConvert{{InputPath: path, OutputPath: filepath.Join(dir, "a.pdf"), Source: mdreport.SourceMarkdown}}

	results := convertBatch(context.Background(), pool, files, &conversionParams{})
	if len(results) != 1 || !errors.Is(results[0].Err, mdreport.ErrPDFGeneration) {
		t.Errorf("results = %+v, want wrapped ErrPDFGeneration", results)
	}
}

func TestConvertFile_TitleDefaultsToFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "quarterly-report.md")
	if err := os.WriteFile(path, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := &fakeConverter{}
	f := FileToConvert{InputPath: path, OutputPath: filepath.Join(dir, "out.pdf"), Source: mdreport.SourceMarkdown}

	result := convertFile(context.Background(), conv, f, &conversionParams{})
	if result.Err != nil {
		t.Fatalf("convertFile() error: %v", result.Err)
	}
	if len(conv.inputs) != 1 || conv.inputs[0].Title != "quarterly-report" {
		t.Errorf("title = %q, want filename stem", conv.inputs[0].Title)
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	t.Parallel()

	conv := &fakeConverter{}
	f := FileToConvert{
		InputPath:  filepath.Join(t.TempDir(), "missing.md"),
		OutputPath: filepath.Join(t.TempDir(), "out.pdf"),
		Source:     mdreport.SourceMarkdown,
	}

	result := convertFile(context.Background(), conv, f, &conversionParams{})
	if !errors.Is(result.Err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", result.Err)
	}
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("no args, no config: error = %v, want ErrNoInput", err)
	}

	got, err := resolveInputPath([]string{"doc.md"}, cfg)
	if err != nil || got != "doc.md" {
		t.Errorf("positional arg: got %q, %v", got, err)
	}

	cfg.Input.DefaultDir = "./docs"
	got, err = resolveInputPath(nil, cfg)
	if err != nil || got != "./docs" {
		t.Errorf("config default: got %q, %v", got, err)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
