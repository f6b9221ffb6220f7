package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/fonts"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/renderer"
)

// Surface draws text plans via github.com/tdewolff/canvas.
//
// 除 fonts 包支持的来源外，还可以用 "system:<字体名>" 加载系统字体，例如 "system:Noto Sans CJK SC"。
//
// 画布单位为 mm，光栅化分辨率固定为每 mm 一个像素，因此布局中的像素值可直接作为画布坐标；
// 只有字号需要换算成 pt。描边是真正的路径描边（圆角连接），而非偏移叠印。
type Surface struct {
	fontBlobs  map[string][]byte // by source name
	fontErrors map[string]error  // injected paths that could not be read

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Surface = (*Surface)(nil)

// Options configures the canvas surface.
type Options struct {
	Fonts map[string]Resource // injected fonts, looked up by FontSpec.Source before fonts.Load
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// New creates a canvas surface that loads fonts through the fonts package.
func New() *Surface { return NewWithOptions(Options{}) }

// NewWithOptions creates a surface with injected font resources.
func NewWithOptions(opts Options) *Surface {
	s := &Surface{
		fontBlobs:    map[string][]byte{},
		fontErrors:   map[string]error{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			s.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				s.fontErrors[name] = errors.Wrap(errors.ErrCodeAssetLoad, err, "读取字体 %s 失败", res.Path)
				continue
			}
			s.fontBlobs[name] = data
		}
	}
	return s
}

// TextWidth 实现 layout.Measurer。
func (s *Surface) TextWidth(text string, spec layout.FontSpec) (float64, error) {
	face, err := s.fontFace(spec, canvas.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// FontMetrics 实现 layout.Measurer。
func (s *Surface) FontMetrics(spec layout.FontSpec) (layout.Metrics, error) {
	face, err := s.fontFace(spec, canvas.Black)
	if err != nil {
		return layout.Metrics{}, err
	}
	m := face.Metrics()
	return layout.Metrics{Ascent: m.Ascent, Descent: m.Descent}, nil
}

// Rasterize 把每个图层画到独立画布上：先整体描边，再整体填充。
func (s *Surface) Rasterize(plan *layout.TextPlan, spec layout.FontSpec) (*image.RGBA, error) {
	face, err := s.fontFace(spec, spec.Fill.RGBA())
	if err != nil {
		return nil, err
	}
	return renderer.Assemble(plan, func(layer layout.Layer) (*image.RGBA, error) {
		w, h := renderer.LayerSize(layer)
		c := canvas.New(float64(w), float64(h))
		ctx := canvas.NewContext(c)

		paths := make([]*canvas.Path, 0, len(layer.Glyphs))
		for _, g := range layer.Glyphs {
			p, _, err := face.ToPath(g.Text)
			if err != nil {
				return nil, fmt.Errorf("生成字形 %q 路径失败: %w", g.Text, err)
			}
			paths = append(paths, p.Transform(glyphMatrix(g, float64(h))))
		}

		stroke := spec.Stroke.RGBA()
		if spec.StrokeWidth > 0 {
			ctx.SetFillColor(stroke)
			ctx.SetStrokeColor(stroke)
			ctx.SetStrokeWidth(spec.StrokeWidth)
			ctx.SetStrokeJoiner(canvas.RoundJoin)
			for _, p := range paths {
				ctx.DrawPath(0, 0, p)
			}
		}
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetFillColor(spec.Fill.RGBA())
		for _, p := range paths {
			ctx.DrawPath(0, 0, p)
		}

		return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
	})
}

// glyphMatrix 把 y 轴向上的字形路径放到图层中：先翻转为 y 轴向下，套用字形变换，
// 再翻转回画布默认的 y 轴向上坐标系。
func glyphMatrix(g layout.Glyph, height float64) canvas.Matrix {
	flip := gg.Scale(1, -1).Multiply(gg.Translate(0, height))
	m := gg.Scale(1, -1).Multiply(g.Matrix()).Multiply(flip)
	return canvas.Matrix{
		{m.XX, m.XY, m.X0},
		{m.YX, m.YY, m.Y0},
	}
}

func (s *Surface) fontFace(spec layout.FontSpec, col color.Color) (*canvas.FontFace, error) {
	if spec.Size <= 0 {
		return nil, fmt.Errorf("字号 %g 无效", spec.Size)
	}
	family, err := s.ensureFontFamily(spec.Source)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PixelsToPoints(spec.Size), col, canvas.FontRegular, canvas.FontNormal), nil
}

func (s *Surface) ensureFontFamily(src string) (*canvas.FontFamily, error) {
	if src == "" {
		src = fonts.Default
	}
	s.fontMu.Lock()
	defer s.fontMu.Unlock()
	if family, ok := s.fontFamilies[src]; ok {
		return family, nil
	}
	if err, ok := s.fontErrors[src]; ok {
		return nil, err
	}
	family := canvas.NewFontFamily(src)
	if name, ok := fonts.System(src); ok {
		if err := family.LoadSystemFont(name, canvas.FontRegular); err != nil {
			return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "加载系统字体 %q 失败", name)
		}
		s.fontFamilies[src] = family
		return family, nil
	}
	data, ok := s.fontBlobs[src]
	if !ok {
		var err error
		if data, err = fonts.Load(src); err != nil {
			return nil, err
		}
	}
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "加载字体 %s 失败", src)
	}
	s.fontFamilies[src] = family
	return family, nil
}
