// Package document holds the shared stroke model: points, strokes, the
// document (z-ordered stroke list with optional background image), and the
// width unit model that keeps backend-specific widths out of the shared
// types.
package document

import (
	"fmt"
	"image"
)

// Point is a position in document coordinates (canvas units, origin at the
// top-left corner).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke 表示一次连续的画笔手势：有序的点序列加统一的宽度与颜色。
// 点的顺序即绘制顺序，永不重排；只有一个点的笔画渲染为一个圆点。
// 笔画在手势结束时封存（Recorder.End），之后不再修改。
type Stroke struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Width  float64 `json:"width"` // nominal width, canvas units
	Color  Color   `json:"color"`
}

// IsDot reports whether the stroke renders as a single dot.
func (s Stroke) IsDot() bool { return len(s.Points) == 1 }

// Document is the ordered collection of strokes comprising one drawing.
// Stroke insertion order is z-order: later strokes overlay earlier ones.
type Document struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"` // canvas size, canvas units
	Height float64 `json:"height"`

	// Background is an optional image composited under the strokes on
	// export. BackgroundSrc records where it came from.
	Background    image.Image `json:"-"`
	BackgroundSrc string      `json:"backgroundSrc,omitempty"`

	Strokes []Stroke `json:"strokes"`
}

// New creates an empty document with the given canvas size.
func New(width, height float64) (*Document, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸必须为正数: %gx%g", width, height)
	}
	return &Document{Width: width, Height: height}, nil
}

// FromImage creates a document sized to a background image, one canvas unit
// per image pixel. This mirrors the interactive surface, which sizes its
// canvas from the loaded picture.
func FromImage(img image.Image, src string) (*Document, error) {
	if img == nil {
		return nil, fmt.Errorf("背景图片为空")
	}
	b := img.Bounds()
	doc, err := New(float64(b.Dx()), float64(b.Dy()))
	if err != nil {
		return nil, err
	}
	doc.Background = img
	doc.BackgroundSrc = src
	return doc, nil
}

// Append adds a sealed stroke on top of the existing ones. The stroke must
// have at least one point and a valid nominal width.
func (d *Document) Append(s Stroke) error {
	if len(s.Points) == 0 {
		return fmt.Errorf("笔画 %s 没有任何点", s.ID)
	}
	if err := CheckWidth(s.Width); err != nil {
		return fmt.Errorf("笔画 %s: %w", s.ID, err)
	}
	d.Strokes = append(d.Strokes, s)
	return nil
}

// Remove deletes the stroke with the given ID, preserving the order of the
// rest. Reports whether anything was removed.
func (d *Document) Remove(id string) bool {
	for i, s := range d.Strokes {
		if s.ID == id {
			d.Strokes = append(d.Strokes[:i], d.Strokes[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops all strokes, keeping canvas size and background.
func (d *Document) Clear() {
	d.Strokes = nil
}

// Len returns the number of strokes.
func (d *Document) Len() int { return len(d.Strokes) }
