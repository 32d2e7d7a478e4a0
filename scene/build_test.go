package scene_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paintjr/paintjr/document"
	"github.com/paintjr/paintjr/scene"
	"github.com/paintjr/paintjr/sketch"
)

func parse(t *testing.T, src string) *sketch.File {
	t.Helper()
	f, err := sketch.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return f
}

func build(t *testing.T, src string, opts scene.BuildOptions) *document.Document {
	t.Helper()
	doc, err := scene.Build(parse(t, src), opts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return doc
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestBuildSimpleDocument(t *testing.T) {
	doc := build(t, `
sketch doodle v1 {
  canvas 320 240
  stroke { width: 1.0; points: [0 0, 10 10] }
  stroke { width: 2.0; points: [0 5, 10 15] }
  stroke { width: 3.0; points: [0 9, 10 19] }
}
`, scene.BuildOptions{})

	if doc.Name != "doodle" {
		t.Fatalf("expected name doodle, got %s", doc.Name)
	}
	if doc.Width != 320 || doc.Height != 240 {
		t.Fatalf("unexpected canvas size: %gx%g", doc.Width, doc.Height)
	}
	if doc.Len() != 3 {
		t.Fatalf("expected 3 strokes, got %d", doc.Len())
	}
	// 笔画顺序即文件顺序
	for i, want := range []float64{1, 2, 3} {
		if got := doc.Strokes[i].Width; got != want {
			t.Fatalf("stroke %d width: got=%g want=%g", i, got, want)
		}
	}
	for _, s := range doc.Strokes {
		if s.ID == "" {
			t.Fatalf("strokes without explicit id still need a generated one")
		}
		if s.Color != document.DefaultStrokeColor {
			t.Fatalf("missing color must default, got %+v", s.Color)
		}
	}
}

func TestBuildDefaultsAndColor(t *testing.T) {
	doc := build(t, `
sketch doodle v1 {
  canvas 100 100
  stroke { id: "dot"; color: #ff0000; points: [50 50] }
}
`, scene.BuildOptions{})

	s := doc.Strokes[0]
	if s.ID != "dot" {
		t.Fatalf("explicit id lost: %s", s.ID)
	}
	if s.Width != document.DefaultBrushWidth {
		t.Fatalf("missing width must default to %g, got %g", document.DefaultBrushWidth, s.Width)
	}
	if s.Color != (document.Color{R: 255, A: 255}) {
		t.Fatalf("color mismatch: %+v", s.Color)
	}
	if !s.IsDot() {
		t.Fatalf("single point stroke must be a dot")
	}
}

func TestBuildResolvesPlaceholders(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{"brush": {"width": 4.5, "color": "#aabbcc"}, "size": {"w": 64, "h": 48}}`), &data); err != nil {
		t.Fatalf("bad test data: %v", err)
	}

	doc := build(t, `
sketch doodle v1 {
  canvas ${size.w} ${size.h}
  stroke { width: ${brush.width}; color: ${brush.color}; points: [1 1, 2 2] }
}
`, scene.BuildOptions{Data: data})

	if doc.Width != 64 || doc.Height != 48 {
		t.Fatalf("canvas placeholders not resolved: %gx%g", doc.Width, doc.Height)
	}
	s := doc.Strokes[0]
	if s.Width != 4.5 {
		t.Fatalf("width placeholder not resolved: %g", s.Width)
	}
	if s.Color != (document.Color{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}) {
		t.Fatalf("color placeholder not resolved: %+v", s.Color)
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name, src string
	}{
		{"missing canvas", `sketch d v1 { stroke { points: [1 1] } }`},
		{"duplicate canvas", `sketch d v1 { canvas 10 10
canvas 10 10 }`},
		{"zero width", `sketch d v1 { canvas 10 10
stroke { width: 0; points: [1 1] } }`},
		{"negative width", `sketch d v1 { canvas 10 10
stroke { width: -2; points: [1 1] } }`},
		{"wrong version", `sketch d v2 { canvas 10 10 }`},
	}
	for _, c := range cases {
		if _, err := scene.Build(parse(t, c.src), scene.BuildOptions{}); err == nil {
			t.Fatalf("%s: expected build error", c.name)
		}
	}
}

// 宽度超过交互端上限时按画笔上限截断，而不是报错。
func TestBuildClampsOversizedWidth(t *testing.T) {
	doc := build(t, `
sketch d v1 {
  canvas 10 10
  stroke { width: 100; points: [1 1, 2 2] }
}
`, scene.BuildOptions{})
	if got := doc.Strokes[0].Width; got != document.MaxBrushWidth {
		t.Fatalf("oversized width: got=%g want=%g", got, document.MaxBrushWidth)
	}
}

func TestBuildLoadsBackgroundFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bg.png"), pngBytes(t, 30, 20), 0o644); err != nil {
		t.Fatalf("write test png: %v", err)
	}

	doc := build(t, `
sketch d v1 {
  canvas 0 0 {
    background: "bg.png"
  }
}
`, scene.BuildOptions{BaseDir: dir})

	// 画布宽高写作 0 0 时取背景图片的像素尺寸
	if doc.Width != 30 || doc.Height != 20 {
		t.Fatalf("canvas must size from background: %gx%g", doc.Width, doc.Height)
	}
	if doc.Background == nil || doc.BackgroundSrc != "bg.png" {
		t.Fatalf("background not recorded: %v %q", doc.Background, doc.BackgroundSrc)
	}
}

func TestBuildLoadsBuiltinBackground(t *testing.T) {
	doc := build(t, `
sketch d v1 {
  canvas 100 100 {
    background: "built-in:paper"
  }
}
`, scene.BuildOptions{Images: map[string][]byte{"paper": pngBytes(t, 8, 8)}})

	if doc.Background == nil {
		t.Fatalf("built-in background missing")
	}
	if doc.Width != 100 || doc.Height != 100 {
		t.Fatalf("explicit canvas size must win: %gx%g", doc.Width, doc.Height)
	}
}

func TestBuildRefusesRelativePathWithoutBaseDir(t *testing.T) {
	_, err := scene.Build(parse(t, `
sketch d v1 {
  canvas 10 10 {
    background: "bg.png"
  }
}
`), scene.BuildOptions{})
	if err == nil || !strings.Contains(err.Error(), "bg.png") {
		t.Fatalf("expected relative-path error, got %v", err)
	}
}
