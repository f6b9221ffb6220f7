package canvasrenderer

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/style"
)

func TestMeasureWithInjectedFont(t *testing.T) {
	s := NewWithOptions(Options{Fonts: map[string]Resource{"body": {Bytes: goregular.TTF}}})
	spec := layout.DefaultFont()
	spec.Source = "body"

	short, err := s.TextWidth("Hi", spec)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	long, err := s.TextWidth("there", spec)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if !(short > 0 && long > short) {
		t.Fatalf("unexpected widths %g %g", short, long)
	}
	m, err := s.FontMetrics(spec)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !(m.Ascent > 0) {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestUnknownFont(t *testing.T) {
	spec := layout.DefaultFont()
	spec.Source = "embed:missing"
	if _, err := New().TextWidth("x", spec); !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("expected ASSET_LOAD for unknown font, got %v", err)
	}

	spec.Source = "system:No Such Font Family 9f1c"
	if _, err := New().TextWidth("x", spec); !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("expected ASSET_LOAD for missing system font, got %v", err)
	}
}

func TestInjectedFontPathError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.ttf")
	s := NewWithOptions(Options{Fonts: map[string]Resource{"body": {Path: path}}})
	spec := layout.DefaultFont()
	spec.Source = "body"
	_, err := s.TextWidth("x", spec)
	if !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("expected ASSET_LOAD, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("read error should surface with its path, got %v", err)
	}
}

func TestRasterizeMatchesPlanSize(t *testing.T) {
	s := New()
	spec := layout.DefaultFont()
	plan, err := layout.Lines([]string{"Hi", "there"}, style.Horizontal, style.AlignCenter, spec, s)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	img, err := s.Rasterize(plan, spec)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	w, h := plan.PixelSize()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("raster %v does not match plan %dx%d", img.Bounds(), w, h)
	}
	painted := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.RGBAAt(x, y).A > 0 {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Fatalf("expected painted pixels")
	}
}

func TestGlyphMatrixKeepsGlyphsUpright(t *testing.T) {
	g := layout.Glyph{Text: "A", X: 10, Y: 50, DX: -5}
	m := glyphMatrix(g, 100)
	apply := func(x, y float64) (float64, float64) {
		return m[0][0]*x + m[0][1]*y + m[0][2], m[1][0]*x + m[1][1]*y + m[1][2]
	}
	// 基线左端：图层 (5, 50)，画布 y 轴向上时为 (5, 50)
	if x, y := apply(0, 0); math.Abs(x-5) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Fatalf("unexpected baseline origin (%g, %g)", x, y)
	}
	// 字形上方 10 个单位：图层 y=40，画布 y=60
	if x, y := apply(0, 10); math.Abs(x-5) > 1e-9 || math.Abs(y-60) > 1e-9 {
		t.Fatalf("ascender should point up on the canvas, got (%g, %g)", x, y)
	}
}
