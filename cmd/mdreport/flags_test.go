package main

import "testing"

func TestParseFlags(t *testing.T) {
	t.Parallel()

	flags, args, err := parseFlags([]string{
		"mdreport",
		"-o", "out",
		"--from", "pdf",
		"--title", "Report",
		"-p", "a4",
		"--margin", "1.0",
		"--render-timeout", "5s",
		"-w", "3",
		"-v",
		"docs/input.pdf",
	})
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}

	if flags.output != "out" {
		t.Errorf("output = %q", flags.output)
	}
	if flags.from != "pdf" {
		t.Errorf("from = %q", flags.from)
	}
	if flags.title != "Report" {
		t.Errorf("title = %q", flags.title)
	}
	if flags.page.size != "a4" {
		t.Errorf("page size = %q", flags.page.size)
	}
	if flags.page.margin != 1.0 {
		t.Errorf("margin = %g", flags.page.margin)
	}
	if flags.render.timeout != "5s" {
		t.Errorf("render timeout = %q", flags.render.timeout)
	}
	if flags.workers != 3 {
		t.Errorf("workers = %d", flags.workers)
	}
	if !flags.common.verbose {
		t.Error("verbose not set")
	}

	if len(args) != 1 || args[0] != "docs/input.pdf" {
		t.Errorf("positional args = %v", args)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	flags, args, err := parseFlags([]string{"mdreport", "doc.md"})
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}

	if flags.from != "auto" {
		t.Errorf("from default = %q, want auto", flags.from)
	}
	if flags.workers != 0 {
		t.Errorf("workers default = %d, want 0", flags.workers)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}

func TestParseFlags_Unknown(t *testing.T) {
	t.Parallel()

	_, _, err := parseFlags([]string{"mdreport", "--no-such-flag"})
	if err == nil {
		t.Error("unknown flag must error")
	}
}
