package previewrenderer

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/paintjr/paintjr/document"
)

func testDoc(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.New(40, 30)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	if err := doc.Append(document.Stroke{
		ID:     "a",
		Width:  8,
		Color:  document.DefaultStrokeColor,
		Points: []document.Point{{X: 5, Y: 5}, {X: 35, Y: 25}},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	return doc
}

// 预览按名义宽度绘制，不应用任何校准；这里只验证尺寸与编码。
func TestRenderPreviewPNG(t *testing.T) {
	out, err := NewRendererWithOptions(Options{Scale: 2}).Render(testDoc(t))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 80 || b.Dy() != 60 {
		t.Fatalf("unexpected output size: %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil document must fail")
	}

	doc := testDoc(t)
	doc.Strokes[0].Width = -1
	if _, err := r.Render(doc); err == nil {
		t.Fatalf("invalid width must fail")
	}
}
