package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/sticker/style"
)

// ArcAngle 是弧形文字张开的固定角度，与文字长度无关。
const ArcAngle = math.Pi / 4

// ArcGeometry 描述文字所在的圆弧：弧长即测得的文字宽度。
type ArcGeometry struct {
	Angle     float64 `json:"angle"`
	ArcLength float64 `json:"arcLength"`
	Radius    float64 `json:"radius"`
	Chord     float64 `json:"chord"`
	Sagitta   float64 `json:"sagitta"`
}

// NewArcGeometry 由弧长与张角推导半径、弦长与矢高。
func NewArcGeometry(arcLength, angle float64) ArcGeometry {
	g := ArcGeometry{Angle: angle, ArcLength: arcLength}
	if arcLength <= 0 || angle <= 0 {
		return g
	}
	g.Radius = arcLength / angle
	g.Chord = 2 * g.Radius * math.Sin(angle/2)
	g.Sagitta = g.Radius * (1 - math.Cos(angle/2))
	return g
}

// StartAngle 返回起笔方向：让圆弧开口朝下并左右对称。
func (g ArcGeometry) StartAngle() float64 {
	return -(math.Pi/2 - (math.Pi-g.Angle)/2)
}

// arcWalker 沿圆周步进：先转半个角度，沿弦前进，再转半个角度。
// 每一步之后 (x, y) 仍精确落在同一个圆上，heading 为该点的切线方向。
type arcWalker struct {
	x, y    float64
	heading float64
	radius  float64
}

func (w *arcWalker) advance(angle float64) {
	w.heading += angle / 2
	chord := 2 * w.radius * math.Sin(angle/2)
	w.x += chord * math.Cos(w.heading)
	w.y += chord * math.Sin(w.heading)
	w.heading += angle / 2
}

// Curved 把每行文字沿圆弧排布，每行一个图层，图层之间按行距错开。
// 所有行共用最长行决定的圆，较短的行依对齐方式在弧上预先转过一段角度。
func Curved(lines []string, align style.Align, font FontSpec, m Measurer) (*TextPlan, error) {
	if m == nil {
		return nil, fmt.Errorf("缺少文本测量器")
	}
	if font.Size <= 0 || font.LineHeight <= 0 {
		return nil, fmt.Errorf("字号 %g 或行距 %g 无效", font.Size, font.LineHeight)
	}
	metrics, err := m.FontMetrics(font)
	if err != nil {
		return nil, fmt.Errorf("读取字体度量失败: %w", err)
	}

	widths := make([]float64, len(lines))
	arcLength := 0.0
	for i, line := range lines {
		if line == "" {
			continue
		}
		w, err := m.TextWidth(line, font)
		if err != nil {
			return nil, fmt.Errorf("测量第 %d 行失败: %w", i+1, err)
		}
		widths[i] = w
		arcLength = max(arcLength, w)
	}
	if arcLength <= 0 {
		return &TextPlan{}, nil
	}

	geo := NewArcGeometry(arcLength, ArcAngle)
	fs := font.Size
	sw := font.StrokeWidth
	glyphHeight := metrics.Height()
	if glyphHeight <= 0 {
		glyphHeight = fs
	}

	margin := fs/2 + sw/2
	originX := margin
	originY := geo.Sagitta + glyphHeight + sw/2
	layerW := geo.Chord + 2*margin
	layerH := originY + fs/2 + sw/2
	pitch := font.Pitch()

	plan := &TextPlan{
		Width:  layerW,
		Height: float64(len(lines)-1)*pitch + layerH,
		Layers: make([]Layer, 0, len(lines)),
	}
	for i, line := range lines {
		layer := Layer{OffsetY: float64(i) * pitch, Width: layerW, Height: layerH}
		if widths[i] > 0 {
			glyphs, err := walkLine(line, widths[i], geo, align, originX, originY, font, metrics, m)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行: %w", i+1, err)
			}
			layer.Glyphs = glyphs
		}
		plan.Layers = append(plan.Layers, layer)
	}
	return plan, nil
}

func walkLine(line string, lineWidth float64, geo ArcGeometry, align style.Align, x0, y0 float64, font FontSpec, metrics Metrics, m Measurer) ([]Glyph, error) {
	w := &arcWalker{x: x0, y: y0, heading: geo.StartAngle(), radius: geo.Radius}

	gap := (geo.ArcLength - lineWidth) / geo.Radius
	switch align {
	case style.AlignCenter:
		w.advance(gap / 2)
	case style.AlignRight:
		w.advance(gap)
	}

	runes := []rune(line)
	glyphs := make([]Glyph, 0, len(runes))
	for j, r := range runes {
		ch := string(r)
		cw, err := m.TextWidth(ch, font)
		if err != nil {
			return nil, fmt.Errorf("测量第 %d 个字符失败: %w", j+1, err)
		}
		charAngle := cw / geo.ArcLength * geo.Angle
		w.advance(charAngle / 2)
		if cw > 0 {
			glyphs = append(glyphs, Glyph{
				Text:  ch,
				X:     w.x,
				Y:     w.y,
				Angle: w.heading,
				DX:    -cw / 2,
				DY:    -metrics.Descent,
			})
		}
		w.advance(charAngle / 2)
	}
	return glyphs, nil
}
