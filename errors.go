package mdreport

import (
	"errors"

	"github.com/alnah/go-mdreport/internal/ingest"
)

// Sentinel errors for library operations.
var (
	ErrEmptyContent   = errors.New("input content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
)

// Input validation errors, surfaced before any pipeline work starts.
// Aliased from the ingest package so callers can match them with errors.Is
// without importing internal packages.
var (
	ErrInputTooLarge     = ingest.ErrInputTooLarge
	ErrUnsupportedSource = ingest.ErrUnsupportedSource
	ErrPDFExtract        = ingest.ErrPDFExtract
)
