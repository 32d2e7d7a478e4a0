// Package scene 将解析后的 sketch AST 编译为可渲染的 document.Document：
// 解析颜色与宽度、校验笔画、解析 ${} 数据绑定并加载背景图片。
package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/paintjr/paintjr/binding"
	"github.com/paintjr/paintjr/document"
	"github.com/paintjr/paintjr/sketch"
)

// Version is the only sketch format revision this build step understands.
const Version = "v1"

// BuildOptions 配置编译阶段的依赖：资源目录、内置图片与绑定数据。
type BuildOptions struct {
	// BaseDir resolves relative background paths. When empty, relative
	// paths are refused (use built-in: instead).
	BaseDir string
	// Images maps built-in image names (referenced as "built-in:<name>")
	// to their encoded bytes.
	Images map[string][]byte
	// Data is bound to ${path} placeholders in the file.
	Data any
}

// Build compiles a parsed sketch file into a document.
func Build(f *sketch.File, opts BuildOptions) (*document.Document, error) {
	if f == nil {
		return nil, fmt.Errorf("sketch AST 为空")
	}
	if f.Version != Version {
		return nil, fmt.Errorf("不支持的 sketch 版本 %q（当前仅支持 %s）", f.Version, Version)
	}

	var canvasSec *sketch.CanvasSection
	var strokeSecs []*sketch.StrokeSection
	for _, sec := range f.Sections {
		switch {
		case sec.Canvas != nil:
			if canvasSec != nil {
				return nil, fmt.Errorf("canvas 小节重复定义")
			}
			canvasSec = sec.Canvas
		case sec.Stroke != nil:
			strokeSecs = append(strokeSecs, sec.Stroke)
		case sec.Meta != nil:
			// meta assignments are informational, nothing to compile yet
		}
	}
	if canvasSec == nil {
		return nil, fmt.Errorf("缺少 canvas 小节")
	}

	doc, err := buildCanvas(canvasSec, opts)
	if err != nil {
		return nil, err
	}
	doc.Name = f.Name

	for _, sec := range strokeSecs {
		s, err := buildStroke(sec, opts.Data)
		if err != nil {
			return nil, err
		}
		if err := doc.Append(s); err != nil {
			return nil, fmt.Errorf("%s: %w", sec.Pos, err)
		}
	}
	return doc, nil
}

func buildCanvas(sec *sketch.CanvasSection, opts BuildOptions) (*document.Document, error) {
	width, err := evalScalar(sec.Width, opts.Data)
	if err != nil {
		return nil, fmt.Errorf("canvas 宽度: %w", err)
	}
	height, err := evalScalar(sec.Height, opts.Data)
	if err != nil {
		return nil, fmt.Errorf("canvas 高度: %w", err)
	}

	var bg image.Image
	var bgSrc string
	if v := sec.Block.Get("background"); v != nil {
		if v.String == nil {
			return nil, fmt.Errorf("background 必须是字符串路径")
		}
		bgSrc = binding.Interpolate(string(*v.String), opts.Data)
		bg, err = loadImage(bgSrc, opts)
		if err != nil {
			return nil, err
		}
	}

	// 宽高写作 0 0 时按背景图片的像素尺寸取画布大小（交互端从加载的图片取画布）。
	if width == 0 && height == 0 && bg != nil {
		doc, err := document.FromImage(bg, bgSrc)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}

	doc, err := document.New(width, height)
	if err != nil {
		return nil, err
	}
	doc.Background = bg
	doc.BackgroundSrc = bgSrc
	return doc, nil
}

func buildStroke(sec *sketch.StrokeSection, data any) (document.Stroke, error) {
	s := document.Stroke{
		Width: document.DefaultBrushWidth,
		Color: document.DefaultStrokeColor,
	}

	if v := sec.Block.Get("id"); v != nil && v.String != nil {
		s.ID = string(*v.String)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	if v := sec.Block.Get("width"); v != nil {
		w, err := evalValue(v, data)
		if err != nil {
			return document.Stroke{}, fmt.Errorf("%s: width: %w", sec.Pos, err)
		}
		if err := document.CheckWidth(w); err != nil {
			return document.Stroke{}, fmt.Errorf("%s: %w", sec.Pos, err)
		}
		// a value above the interactive maximum is not an error, just a
		// thicker brush than the surface offers; cap it like the surface
		if w > document.MaxBrushWidth {
			w = document.MaxBrushWidth
		}
		s.Width = w
	}

	if v := sec.Block.Get("color"); v != nil {
		col, err := evalColor(v, data)
		if err != nil {
			return document.Stroke{}, fmt.Errorf("%s: %w", sec.Pos, err)
		}
		s.Color = col
	}

	v := sec.Block.Get("points")
	if v == nil || v.Points == nil || len(v.Points.Pairs) == 0 {
		return document.Stroke{}, fmt.Errorf("%s: 笔画缺少 points", sec.Pos)
	}
	for _, pair := range v.Points.Pairs {
		x, err := evalScalar(pair.X, data)
		if err != nil {
			return document.Stroke{}, fmt.Errorf("%s: 坐标: %w", sec.Pos, err)
		}
		y, err := evalScalar(pair.Y, data)
		if err != nil {
			return document.Stroke{}, fmt.Errorf("%s: 坐标: %w", sec.Pos, err)
		}
		s.Points = append(s.Points, document.Point{X: x, Y: y})
	}
	return s, nil
}

// evalValue resolves a number-or-placeholder assignment value to a float.
func evalValue(v *sketch.Value, data any) (float64, error) {
	switch {
	case v.Number != nil:
		return evalScalar(*v.Number, data)
	case v.Placeholder != nil:
		return evalScalar(*v.Placeholder, data)
	default:
		return 0, fmt.Errorf("期望数字或 ${} 占位符")
	}
}

// evalScalar turns a raw token ("4.0" or "${brush.width}") into a float.
func evalScalar(raw string, data any) (float64, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "${") {
		val, ok := binding.Expand(raw, data)
		if !ok {
			return 0, fmt.Errorf("占位符 %s 无法在绑定数据中解析", raw)
		}
		switch n := val.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case string:
			raw = n
		default:
			return 0, fmt.Errorf("占位符 %s 解析为非数值: %v", raw, val)
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("解析数值 %q 失败: %w", raw, err)
	}
	return f, nil
}

func evalColor(v *sketch.Value, data any) (document.Color, error) {
	var hex string
	switch {
	case v.Color != nil:
		hex = *v.Color
	case v.String != nil:
		hex = binding.Interpolate(string(*v.String), data)
	case v.Placeholder != nil:
		val, ok := binding.Expand(*v.Placeholder, data)
		if !ok {
			return document.Color{}, fmt.Errorf("颜色占位符 %s 无法解析", *v.Placeholder)
		}
		str, isStr := val.(string)
		if !isStr {
			return document.Color{}, fmt.Errorf("颜色占位符 %s 解析为非字符串: %v", *v.Placeholder, val)
		}
		hex = str
	default:
		return document.Color{}, fmt.Errorf("期望 #RRGGBB 颜色")
	}
	return document.ParseHexColor(hex)
}

// loadImage resolves and decodes a background image reference. built-in:
// resources take precedence; bare relative paths need BaseDir.
func loadImage(src string, opts BuildOptions) (image.Image, error) {
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		blob, ok := opts.Images[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}

	path := src
	if !filepath.IsAbs(path) {
		if opts.BaseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许使用相对路径：%s（请改用 built-in:）", src)
		}
		path = filepath.Join(opts.BaseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取背景图片 %s 失败: %w", src, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码背景图片 %s 失败: %w", src, err)
	}
	return img, nil
}
