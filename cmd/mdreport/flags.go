package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every invocation.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// renderFlags holds diagram rendering flags.
type renderFlags struct {
	timeout string // per-diagram timeout, e.g. "3s"
	workers int    // concurrent render sessions per document
}

// convertFlags holds all flags for the CLI.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int    // parallel documents (pool size)
	timeout string // whole-conversion timeout, e.g. "30s"
	from    string // input kind: auto, markdown, pdf
	title   string
	css     string
	page    pageFlags
	render  renderFlags
	version bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addRenderFlags adds diagram rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.timeout, "render-timeout", "", "per-diagram render timeout (e.g., 3s)")
	fs.IntVar(&f.workers, "render-workers", 0, "concurrent diagram renders per document (0 = auto)")
}

// parseFlags parses CLI flags from argv and returns positional args.
func parseFlags(argv []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("mdreport", flag.ContinueOnError)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.from, "from", "auto", "input kind: auto, markdown, pdf")
	fs.StringVar(&f.title, "title", "", "document title shown in the page footer")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the default stylesheet")
	fs.BoolVar(&f.version, "version", false, "show version and exit")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(argv[1:]); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
