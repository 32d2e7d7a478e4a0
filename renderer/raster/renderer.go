// Package rasterrenderer is the export path: it rasterizes a stroke
// document to PNG bytes via github.com/tdewolff/canvas. Stroke widths go
// through the raster calibration before they reach the rasterizer, so the
// exported thickness visually matches the interactive preview.
package rasterrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/paintjr/paintjr/document"
	"github.com/paintjr/paintjr/renderer"
)

// Options configures the raster renderer.
type Options struct {
	// Scale is the rasterization density in pixels per canvas unit.
	Scale float64
	// Calibration converts nominal widths into rasterizer widths.
	Calibration document.Calibration
	// BackgroundFill paints the canvas before strokes when no background
	// image is set. Nil leaves it transparent.
	BackgroundFill color.Color
}

// Renderer renders documents to PNG via the canvas rasterizer.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a raster renderer with default scale and calibration.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a raster renderer. Zero fields fall back
// to defaults (scale 1, build-time calibration).
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Calibration == (document.Calibration{}) {
		opts.Calibration = document.DefaultCalibration()
	}
	return &Renderer{opts: opts}
}

// strokePass 是一条已换算到光栅单位的绘制指令。
type strokePass struct {
	points []document.Point
	width  float64 // raster units, already calibrated
	color  document.Color
	dot    bool
}

// Render renders the document and encodes it as PNG. Rendering is
// deterministic: the same document with the same options produces
// byte-identical output.
func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸不合法: %gx%g", doc.Width, doc.Height)
	}

	passes, err := r.strokePasses(doc)
	if err != nil {
		return nil, err
	}

	c := canvas.New(doc.Width, doc.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与文档保持左上角为原点

	if doc.Background != nil {
		b := doc.Background.Bounds()
		dpmm := float64(b.Dx()) / doc.Width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(0, 0, doc.Background, canvas.DPMM(dpmm))
	} else if r.opts.BackgroundFill != nil {
		ctx.SetFillColor(r.opts.BackgroundFill)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, canvas.Rectangle(doc.Width, doc.Height))
	}

	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.SetStrokeJoiner(canvas.RoundJoin)
	for _, pass := range passes {
		drawPass(ctx, pass)
	}

	img := rasterizer.Draw(c, canvas.DPMM(r.opts.Scale), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// strokePasses 将文档中的笔画按 z 序换算为光栅绘制指令；宽度换算失败时
// 整体报错，绝不把非法宽度传给光栅器。
func (r *Renderer) strokePasses(doc *document.Document) ([]strokePass, error) {
	passes := make([]strokePass, 0, len(doc.Strokes))
	for _, s := range doc.Strokes {
		if len(s.Points) == 0 {
			return nil, fmt.Errorf("笔画 %s 没有任何点", s.ID)
		}
		w, err := r.opts.Calibration.Raster(s.Width)
		if err != nil {
			return nil, fmt.Errorf("笔画 %s: %w", s.ID, err)
		}
		passes = append(passes, strokePass{
			points: s.Points,
			width:  w,
			color:  s.Color,
			dot:    s.IsDot(),
		})
	}
	return passes, nil
}

func drawPass(ctx *canvas.Context, pass strokePass) {
	if pass.dot {
		// single-point stroke renders as a dot of the stroke's thickness
		ctx.SetFillColor(pass.color)
		ctx.SetStrokeColor(canvas.Transparent)
		p := pass.points[0]
		r := pass.width / 2
		ctx.DrawPath(p.X-r, p.Y-r, canvas.Circle(r))
		return
	}
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(pass.color)
	ctx.SetStrokeWidth(pass.width)
	path := &canvas.Path{}
	path.MoveTo(pass.points[0].X, pass.points[0].Y)
	for _, p := range pass.points[1:] {
		path.LineTo(p.X, p.Y)
	}
	ctx.DrawPath(0, 0, path)
}
