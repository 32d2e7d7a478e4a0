package document

import (
	"fmt"
	"strings"
)

// Color 采用 0-255 的 RGBA 数值，可直接作为 image/color 的 Color 使用。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// DefaultStrokeColor is the interactive surface's initial brush color.
var DefaultStrokeColor = Color{R: 12, G: 50, B: 200, A: 255}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// ParseHexColor parses #RGB, #RRGGBB and #RRGGBBAA notations.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	var c Color
	c.A = 0xff
	switch len(hex) {
	case 3:
		_, err := fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", s, err)
		}
		c.R *= 0x11
		c.G *= 0x11
		c.B *= 0x11
	case 6:
		_, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
		if err != nil {
			return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", s, err)
		}
	case 8:
		_, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return Color{}, fmt.Errorf("解析颜色 %q 失败: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("颜色 %q 长度不合法（支持 #RGB/#RRGGBB/#RRGGBBAA）", s)
	}
	return c, nil
}
