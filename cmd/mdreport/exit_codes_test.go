package main

import (
	"fmt"
	"os"
	"testing"

	mdreport "github.com/alnah/go-mdreport"
	"github.com/alnah/go-mdreport/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitSuccess},
		{name: "browser connect", err: mdreport.ErrBrowserConnect, want: ExitBrowser},
		{name: "pdf generation", err: mdreport.ErrPDFGeneration, want: ExitBrowser},
		{name: "wrapped browser error", err: fmt.Errorf("converting: %w", mdreport.ErrPageLoad), want: ExitBrowser},
		{name: "file not found", err: os.ErrNotExist, want: ExitIO},
		{name: "read input", err: ErrReadInput, want: ExitIO},
		{name: "write pdf", err: ErrWritePDF, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},
		{name: "config not found", err: config.ErrConfigNotFound, want: ExitUsage},
		{name: "config invalid value", err: config.ErrInvalidValue, want: ExitUsage},
		{name: "empty content", err: mdreport.ErrEmptyContent, want: ExitUsage},
		{name: "input too large", err: mdreport.ErrInputTooLarge, want: ExitUsage},
		{name: "unsupported source", err: mdreport.ErrUnsupportedSource, want: ExitUsage},
		{name: "bad page size", err: mdreport.ErrInvalidPageSize, want: ExitUsage},
		{name: "bad extension", err: ErrInvalidExtension, want: ExitUsage},
		{name: "bad worker count", err: ErrInvalidWorkerCount, want: ExitUsage},
		{name: "unknown error", err: fmt.Errorf("something else"), want: ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
