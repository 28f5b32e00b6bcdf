package diagram

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder image layout.
const (
	placeholderWidth  = 1200
	placeholderHeight = 800

	placeholderMargin   = 30
	placeholderLineStep = 20
	placeholderMaxLines = 30
	placeholderMaxCols  = 160
)

// Placeholder colors.
var (
	placeholderBorder = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	placeholderTitle  = color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	placeholderText   = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	placeholderNote   = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// Compile-time interface check.
var _ Renderer = (*Placeholder)(nil)

// Placeholder is the fallback Renderer. It draws the diagram source text
// into a fixed-size PNG so the reader still sees the diagram description
// when the live backend cannot produce a real image. Output is a pure
// function of the source text.
type Placeholder struct{}

// NewPlaceholder creates a Placeholder renderer.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Render produces the placeholder PNG. It never contacts any backend and
// only fails if PNG encoding fails.
func (p *Placeholder) Render(_ context.Context, source string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawBorder(img, 10, placeholderBorder)

	title := fmt.Sprintf("Diagram (%s) - preview unavailable", DiagramType(source))
	drawString(img, placeholderMargin, 40, title, placeholderTitle)

	y := 80
	for i, line := range strings.Split(cleanSource(source), "\n") {
		if i >= placeholderMaxLines {
			drawString(img, placeholderMargin, y, "...", placeholderText)
			break
		}
		if len(line) > placeholderMaxCols {
			line = line[:placeholderMaxCols]
		}
		drawString(img, placeholderMargin, y, line, placeholderText)
		y += placeholderLineStep
	}

	drawString(img, placeholderMargin, placeholderHeight-placeholderMargin,
		"Diagram source shown as text: the rendering backend was unavailable or the render failed.",
		placeholderNote)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding placeholder: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

// Close implements Renderer; the placeholder holds no resources.
func (p *Placeholder) Close() error {
	return nil
}

// drawBorder draws a 2px rectangle inset from the image edge.
func drawBorder(img *image.RGBA, inset int, col color.Color) {
	b := img.Bounds()
	for x := b.Min.X + inset; x < b.Max.X-inset; x++ {
		for _, y := range []int{b.Min.Y + inset, b.Min.Y + inset + 1, b.Max.Y - inset - 2, b.Max.Y - inset - 1} {
			img.Set(x, y, col)
		}
	}
	for y := b.Min.Y + inset; y < b.Max.Y-inset; y++ {
		for _, x := range []int{b.Min.X + inset, b.Min.X + inset + 1, b.Max.X - inset - 2, b.Max.X - inset - 1} {
			img.Set(x, y, col)
		}
	}
}

// drawString draws text at the given baseline using the builtin bitmap face.
func drawString(img *image.RGBA, x, y int, text string, col color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
