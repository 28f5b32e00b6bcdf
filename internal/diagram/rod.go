package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdreport/internal/assets"
)

// Rendering session bounds.
const (
	// DefaultRenderTimeout bounds a single diagram render.
	DefaultRenderTimeout = 3 * time.Second

	viewportWidth  = 1200
	viewportHeight = 800
)

// Compile-time interface check.
var _ Renderer = (*RodRenderer)(nil)

// RodRenderer renders mermaid diagrams in headless Chrome via go-rod. Each
// Render call drives an isolated page: load the mermaid harness, wait for
// the rendered SVG, screenshot it. The browser is shared across calls and
// connected lazily on first use.
type RodRenderer struct {
	timeout time.Duration

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodRenderer creates a RodRenderer with the given per-render timeout.
// A non-positive timeout falls back to DefaultRenderTimeout.
func NewRodRenderer(timeout time.Duration) *RodRenderer {
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	return &RodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, err
	}

	r.browser = browser
	return browser, nil
}

// Render renders one diagram to a PNG screenshot of its SVG element.
// Failure to start the browser is reported as ErrBackendUnavailable so the
// caller can degrade the whole stage; all other failures (including the
// per-render timeout) are ErrRenderFailed and affect only this diagram.
func (r *RodRenderer) Render(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: creating page: %v", ErrRenderFailed, err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(r.timeout)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 2,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrRenderFailed, err)
	}

	var harness bytes.Buffer
	if err := assets.MermaidPage.Execute(&harness, struct{ Source string }{cleanSource(source)}); err != nil {
		return nil, fmt.Errorf("%w: building render page: %v", ErrRenderFailed, err)
	}

	if err := page.SetDocumentContent(harness.String()); err != nil {
		return nil, fmt.Errorf("%w: loading render page: %v", ErrRenderFailed, err)
	}

	// Mermaid replaces the harness <pre> content with an SVG once it has
	// parsed the description; waiting for the element doubles as waiting
	// for the render to finish.
	el, err := page.Element(".mermaid svg")
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for rendered diagram: %v", ErrRenderFailed, err)
	}

	bin, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: capturing screenshot: %v", ErrRenderFailed, err)
	}

	return bin, nil
}

// Close releases browser resources.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}
