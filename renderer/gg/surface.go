package ggrenderer

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/fonts"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/renderer"
)

// Surface 基于 fogleman/gg 与 freetype 光栅化排版结果。
// 字体解析结果按来源缓存；font.Face 不是并发安全的，因此每次调用各自创建。
type Surface struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

var _ renderer.Surface = (*Surface)(nil)

// strokeRings 以同心圆上的偏移重复绘制文字来模拟描边：gg 只能填充文字，无法描边文字轮廓。
var strokeRings = []struct {
	scale float64
	steps int
}{
	{1, 16},
	{0.5, 8},
}

// New creates a gg-backed surface.
func New() *Surface {
	return &Surface{fonts: map[string]*truetype.Font{}}
}

// TextWidth 实现 layout.Measurer。
func (s *Surface) TextWidth(text string, spec layout.FontSpec) (float64, error) {
	face, err := s.face(spec)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return float64(font.MeasureString(face, text)) / 64, nil
}

// FontMetrics 实现 layout.Measurer。
func (s *Surface) FontMetrics(spec layout.FontSpec) (layout.Metrics, error) {
	face, err := s.face(spec)
	if err != nil {
		return layout.Metrics{}, err
	}
	defer face.Close()
	m := face.Metrics()
	return layout.Metrics{Ascent: float64(m.Ascent) / 64, Descent: float64(m.Descent) / 64}, nil
}

// Rasterize 逐图层绘制：先画全部描边，再画全部填充。
func (s *Surface) Rasterize(plan *layout.TextPlan, spec layout.FontSpec) (*image.RGBA, error) {
	face, err := s.face(spec)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	offsets := strokeOffsets(spec.StrokeWidth / 2)
	return renderer.Assemble(plan, func(layer layout.Layer) (*image.RGBA, error) {
		w, h := renderer.LayerSize(layer)
		dc := gg.NewContext(w, h)
		dc.SetFontFace(face)

		dc.SetColor(spec.Stroke.RGBA())
		for _, g := range layer.Glyphs {
			for _, o := range offsets {
				drawGlyph(dc, g, o[0], o[1])
			}
		}
		dc.SetColor(spec.Fill.RGBA())
		for _, g := range layer.Glyphs {
			drawGlyph(dc, g, 0, 0)
		}

		img, ok := dc.Image().(*image.RGBA)
		if !ok {
			return nil, fmt.Errorf("gg 返回了非 RGBA 图像")
		}
		return img, nil
	})
}

func drawGlyph(dc *gg.Context, g layout.Glyph, ox, oy float64) {
	dc.Push()
	dc.Translate(g.X, g.Y)
	dc.Rotate(g.Angle)
	dc.DrawString(g.Text, g.DX+ox, g.DY+oy)
	dc.Pop()
}

func strokeOffsets(radius float64) [][2]float64 {
	if radius <= 0 {
		return nil
	}
	var out [][2]float64
	for _, ring := range strokeRings {
		r := radius * ring.scale
		for i := 0; i < ring.steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(ring.steps)
			out = append(out, [2]float64{r * math.Cos(a), r * math.Sin(a)})
		}
	}
	return out
}

func (s *Surface) face(spec layout.FontSpec) (font.Face, error) {
	if spec.Size <= 0 {
		return nil, fmt.Errorf("字号 %g 无效", spec.Size)
	}
	f, err := s.font(spec.Source)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: spec.Size, Hinting: font.HintingNone}), nil
}

func (s *Surface) font(src string) (*truetype.Font, error) {
	if src == "" {
		src = fonts.Default
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fonts[src]; ok {
		return f, nil
	}
	data, err := fonts.Load(src)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "解析字体 %s 失败", src)
	}
	s.fonts[src] = f
	return f, nil
}
