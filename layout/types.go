package layout

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// TextPlan 是排版结果：纯几何描述，不含任何像素。
// 绘制后端按图层依次光栅化，所有坐标单位均为像素，y 轴向下。
type TextPlan struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layers []Layer `json:"layers"`
}

// Empty 报告排版结果是否为零尺寸（例如全空白文本），此时合成阶段不绘制文字层。
func (p *TextPlan) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0
}

// PixelSize 返回承载该排版结果所需的整数像素尺寸。
func (p *TextPlan) PixelSize() (int, int) {
	if p.Empty() {
		return 0, 0
	}
	return int(math.Ceil(p.Width)), int(math.Ceil(p.Height))
}

// GlyphCount 返回所有图层中的字形数量。
func (p *TextPlan) GlyphCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, l := range p.Layers {
		n += len(l.Glyphs)
	}
	return n
}

// Layer 是一张独立光栅化后再叠加到结果上的子画布。
// 直排只有一个图层；弧形排版每行一个图层，按行距错开叠放。
type Layer struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Glyphs  []Glyph `json:"glyphs"`
}

// Glyph 描述一次文字绘制：先平移到 (X, Y)，再旋转 Angle（弧度，y 轴向下时为顺时针），
// 最后以 (DX, DY) 作为文字基线左端绘制 Text。
type Glyph struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle,omitempty"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
}

// Matrix 返回字形坐标系到图层坐标系的变换。
func (g Glyph) Matrix() gg.Matrix {
	return gg.Identity().Translate(g.X, g.Y).Rotate(g.Angle).Translate(g.DX, g.DY)
}

// Origin 返回基线左端在图层坐标系中的位置。
func (g Glyph) Origin() (float64, float64) {
	return g.Matrix().TransformPoint(0, 0)
}

// Metrics 是字体在给定字号下的纵向度量。
type Metrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Height 返回 ascent+descent。
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// RGBA 转换为标准库颜色，alpha 恒为不透明。
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{R: clampByte(c.R), G: clampByte(c.G), B: clampByte(c.B), A: 0xff}
}

// Hex 返回 #rrggbb 形式。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.R), clampByte(c.G), clampByte(c.B))
}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（alpha 忽略）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// MustColor 用于常量颜色，解析失败时 panic。
func MustColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
