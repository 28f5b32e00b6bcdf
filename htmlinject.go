package mdreport

import (
	"context"
	"encoding/base64"
	"log/slog"
	"regexp"
	"strings"
)

// cssInjector defines the contract for CSS injection into HTML.
type cssInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// cssInjection injects CSS as a <style> block into HTML content.
type cssInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *cssInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	sanitizedCSS := sanitizeCSS(cssContent)
	styleBlock := "<style>" + sanitizedCSS + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// artifactSrcPattern matches <img> src attributes carrying artifact ids, as
// produced by the replacer's image references after markdown conversion.
var artifactSrcPattern = regexp.MustCompile(`src="artifact:([^"]+)"`)

// artifactResolver looks up stored image bytes by opaque id.
type artifactResolver interface {
	Get(id string) ([]byte, bool)
}

// embedArtifacts resolves artifact-id image sources into inline base64 data
// URIs. Embedding the bytes removes any dependency on the rendering process
// and the PDF-printing browser sharing a filesystem view. Unresolvable ids
// are left in place (the image's alt text stays visible) and logged.
func embedArtifacts(htmlContent string, store artifactResolver, logger *slog.Logger) string {
	return artifactSrcPattern.ReplaceAllStringFunc(htmlContent, func(match string) string {
		id := artifactSrcPattern.FindStringSubmatch(match)[1]
		data, ok := store.Get(id)
		if !ok {
			logger.Warn("artifact missing during assembly", "id", id)
			return match
		}
		return `src="data:image/png;base64,` + base64.StdEncoding.EncodeToString(data) + `"`
	})
}
