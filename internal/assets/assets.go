// Package assets embeds the static resources shipped with the library: the
// default report stylesheet and the HTML page used to drive mermaid inside
// headless Chrome. Embedding keeps the binary self-contained; nothing is
// resolved from the filesystem at runtime.
package assets

import (
	_ "embed"
	"html/template"
)

// ReportCSS is the default stylesheet applied to assembled documents.
//
//go:embed styles/report.css
var ReportCSS string

//go:embed templates/mermaid.html.tmpl
var mermaidPageSource string

// MermaidPage is the parsed template for the mermaid rendering session.
// It expects a struct with a Source field holding the diagram description.
var MermaidPage = template.Must(template.New("mermaid").Parse(mermaidPageSource))
