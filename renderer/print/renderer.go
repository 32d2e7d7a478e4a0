// Package printrenderer renders a stroke document to a single-page PDF via
// github.com/tdewolff/canvas/renderers/pdf. The PDF page works in mm, so
// coordinates and widths go through the exact Print unit conversion (no
// empirical ratio involved, the PDF stroke model matches the painter's).
package printrenderer

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/paintjr/paintjr/document"
	"github.com/paintjr/paintjr/renderer"
)

// Options configures the print renderer.
type Options struct {
	// Calibration supplies the nominal→print width conversion.
	Calibration document.Calibration
	// Title is written into the PDF info dictionary; empty falls back to
	// the document name.
	Title string
}

// Renderer renders documents to PDF.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a print renderer with the build-time calibration.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a print renderer.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Calibration == (document.Calibration{}) {
		opts.Calibration = document.DefaultCalibration()
	}
	return &Renderer{opts: opts}
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸不合法: %gx%g", doc.Width, doc.Height)
	}

	wMM := doc.Width * document.PxToMm
	hMM := doc.Height * document.PxToMm

	var buf bytes.Buffer
	writer := pdf.New(&buf, wMM, hMM, nil)
	title := r.opts.Title
	if title == "" {
		title = doc.Name
	}
	writer.SetInfo(title, "", "", "", "Paint Jr.")

	c := canvas.New(wMM, hMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	if doc.Background != nil {
		b := doc.Background.Bounds()
		dpmm := float64(b.Dx()) / wMM
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(0, 0, doc.Background, canvas.DPMM(dpmm))
	}

	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.SetStrokeJoiner(canvas.RoundJoin)
	for _, s := range doc.Strokes {
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("笔画 %s 没有任何点", s.ID)
		}
		w, err := r.opts.Calibration.Print(s.Width)
		if err != nil {
			return nil, fmt.Errorf("笔画 %s: %w", s.ID, err)
		}
		if s.IsDot() {
			ctx.SetFillColor(s.Color)
			ctx.SetStrokeColor(canvas.Transparent)
			p := s.Points[0]
			rad := w / 2
			ctx.DrawPath(p.X*document.PxToMm-rad, p.Y*document.PxToMm-rad, canvas.Circle(rad))
			continue
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(s.Color)
		ctx.SetStrokeWidth(w)
		path := &canvas.Path{}
		path.MoveTo(s.Points[0].X*document.PxToMm, s.Points[0].Y*document.PxToMm)
		for _, p := range s.Points[1:] {
			path.LineTo(p.X*document.PxToMm, p.Y*document.PxToMm)
		}
		ctx.DrawPath(0, 0, path)
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
