package mdreport

import (
	"errors"
	"testing"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{
			name: "valid letter portrait",
			page: &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.5},
		},
		{
			name: "valid a4 landscape",
			page: &PageSettings{Size: "a4", Orientation: "landscape", Margin: 1},
		},
		{
			name: "case insensitive",
			page: &PageSettings{Size: "Letter", Orientation: "PORTRAIT", Margin: 0.5},
		},
		{
			name: "nil means defaults",
			page: nil,
		},
		{
			name:    "unknown size",
			page:    &PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 0.5},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "unknown orientation",
			page:    &PageSettings{Size: "letter", Orientation: "diagonal", Margin: 0.5},
			wantErr: ErrInvalidOrientation,
		},
		{
			name:    "margin below minimum",
			page:    &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.1},
			wantErr: ErrInvalidMargin,
		},
		{
			name:    "margin above maximum",
			page:    &PageSettings{Size: "letter", Orientation: "portrait", Margin: 4},
			wantErr: ErrInvalidMargin,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPageSettings(t *testing.T) {
	t.Parallel()

	p := DefaultPageSettings()
	if p.Size != PageSizeLetter || p.Orientation != OrientationPortrait || p.Margin != DefaultMargin {
		t.Errorf("DefaultPageSettings() = %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestSourceConstants(t *testing.T) {
	t.Parallel()

	if SourceMarkdown != "markdown" || SourcePDF != "pdf" {
		t.Errorf("source constants changed: %q, %q", SourceMarkdown, SourcePDF)
	}
}
