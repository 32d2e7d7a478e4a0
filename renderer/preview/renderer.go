// Package previewrenderer reproduces the interactive display path headless:
// strokes are painted with their *nominal* widths, no calibration applied,
// via github.com/fogleman/gg. Its output is the on-screen reference that
// the raster calibration is tuned against.
package previewrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/paintjr/paintjr/document"
	"github.com/paintjr/paintjr/renderer"
)

// Options configures the preview renderer.
type Options struct {
	// Scale is the output density in pixels per canvas unit.
	Scale float64
	// BackgroundFill paints the canvas before strokes when the document has
	// no background image. Defaults to white, like the drawing surface.
	BackgroundFill color.Color
}

// Renderer renders documents to PNG with on-screen stroke semantics.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a preview renderer with defaults.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a preview renderer. Zero fields fall back
// to defaults.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.BackgroundFill == nil {
		opts.BackgroundFill = color.White
	}
	return &Renderer{opts: opts}
}

// Render paints the document at nominal widths and encodes it as PNG.
func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸不合法: %gx%g", doc.Width, doc.Height)
	}

	scale := r.opts.Scale
	w := int(math.Ceil(doc.Width * scale))
	h := int(math.Ceil(doc.Height * scale))
	dc := gg.NewContext(w, h)
	dc.SetColor(r.opts.BackgroundFill)
	dc.Clear()

	if doc.Background != nil {
		b := doc.Background.Bounds()
		if b.Dx() > 0 && b.Dy() > 0 {
			dc.Push()
			dc.Scale(doc.Width*scale/float64(b.Dx()), doc.Height*scale/float64(b.Dy()))
			dc.DrawImage(doc.Background, 0, 0)
			dc.Pop()
		}
	}

	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, s := range doc.Strokes {
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("笔画 %s 没有任何点", s.ID)
		}
		if err := document.CheckWidth(s.Width); err != nil {
			return nil, fmt.Errorf("笔画 %s: %w", s.ID, err)
		}
		dc.SetColor(s.Color)
		if s.IsDot() {
			p := s.Points[0]
			dc.DrawPoint(p.X*scale, p.Y*scale, s.Width*scale/2)
			dc.Fill()
			continue
		}
		dc.SetLineWidth(s.Width * scale)
		dc.MoveTo(s.Points[0].X*scale, s.Points[0].Y*scale)
		for _, p := range s.Points[1:] {
			dc.LineTo(p.X*scale, p.Y*scale)
		}
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}
