// Package mdreport converts loosely-structured Markdown documents (or plain
// text extracted from PDFs) into presentation-quality PDFs, rendering embedded
// mermaid diagram blocks as images via headless Chrome.
//
// # Quick Start
//
// Create a service, convert a document, and close when done:
//
//	svc := mdreport.New()
//	defer svc.Close()
//
//	pdf, err := svc.Convert(ctx, mdreport.Input{
//	    Content: content,
//	    Source:  mdreport.SourceMarkdown,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.pdf", pdf, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Ingestion (markdown pass-through, or page-by-page PDF text extraction)
//  2. Syntax normalization (fence repair, diagram tag aliases; idempotent)
//  3. Diagram extraction (tagged and keyword-detected blocks, span-tracked)
//  4. Diagram rendering (headless Chrome mermaid session per diagram, with a
//     deterministic placeholder fallback when the browser is unavailable)
//  5. Block replacement (one image reference per diagram block)
//  6. Code block sanitization (residual diagram syntax removed, real code kept)
//  7. Assembly (Goldmark HTML, inline image embedding, Chrome PDF printing)
//
// A single diagram failing to render never fails the document: the diagram is
// substituted with a labeled placeholder image and conversion continues. Only
// input validation and final assembly errors are returned to the caller.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := mdreport.New(
//	    mdreport.WithRenderTimeout(5 * time.Second),
//	    mdreport.WithRenderWorkers(2),
//	    mdreport.WithArtifactTTL(30 * time.Minute),
//	)
//
// # Parallel Processing
//
// For concurrent requests, use ServicePool to manage multiple browser
// instances:
//
//	pool := mdreport.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	pdf, err := svc.Convert(ctx, input)
//
// # Browser Requirements
//
// Diagram rendering and PDF generation require Chrome/Chromium. The go-rod
// library automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/). Use ROD_BROWSER_BIN to point at a pre-installed
// binary in containers. When no browser can be started, diagrams degrade to
// placeholder images and only the final PDF print step fails.
package mdreport
