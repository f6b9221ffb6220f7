package ggrenderer

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/style"
)

func TestMeasure(t *testing.T) {
	s := New()
	spec := layout.DefaultFont()
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
	if w, _ := s.TextWidth("", spec); w != 0 {
		t.Fatalf("empty text should measure zero, got %g", w)
	}
	m, err := s.FontMetrics(spec)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !(m.Ascent > 0 && m.Descent > 0 && m.Ascent < spec.Size*1.5) {
		t.Fatalf("unexpected metrics %+v", m)
	}

	bad := spec
	bad.Source = "embed:missing"
	if _, err := s.TextWidth("x", bad); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}

func TestRasterizeMatchesPlanSize(t *testing.T) {
	s := New()
	spec := layout.DefaultFont()
	plan, err := layout.Lines([]string{"Hi", "there"}, style.Horizontal, style.AlignCenter, spec, s)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	m, err := s.FontMetrics(spec)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	// Go Bold 的 ascent+descent 超过字号，图层按超出部分增高
	if want := 210 + m.Height() - spec.Size; math.Abs(plan.Height-want) > 1e-9 {
		t.Fatalf("expected height %g, got %g", want, plan.Height)
	}
	img, err := s.Rasterize(plan, spec)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	w, h := plan.PixelSize()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("raster %v does not match plan %dx%d", img.Bounds(), w, h)
	}

	var fill, stroke int
	fillColor, strokeColor := spec.Fill.RGBA(), spec.Stroke.RGBA()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(x, y)
			if c.A != 255 {
				continue
			}
			switch {
			case c.R == fillColor.R && c.G == fillColor.G && c.B == fillColor.B:
				fill++
			case c.R == strokeColor.R && c.G == strokeColor.G && c.B == strokeColor.B:
				stroke++
			}
		}
	}
	if fill == 0 || stroke == 0 {
		t.Fatalf("expected both fill and stroke pixels, got fill=%d stroke=%d", fill, stroke)
	}
}

func TestRasterizeKeepsInkInsideRaster(t *testing.T) {
	s := New()
	spec := layout.DefaultFont()
	cases := []struct {
		lines       []string
		orientation style.Orientation
	}{
		{[]string{"Hi", "gyp"}, style.Horizontal},
		{[]string{"HH"}, style.Vertical},
		{[]string{"HH", "gy"}, style.Vertical},
	}
	for _, tc := range cases {
		plan, err := layout.Lines(tc.lines, tc.orientation, style.AlignCenter, spec, s)
		if err != nil {
			t.Fatalf("%v: layout: %v", tc.lines, err)
		}
		img, err := s.Rasterize(plan, spec)
		if err != nil {
			t.Fatalf("%v: rasterize: %v", tc.lines, err)
		}
		b := img.Bounds()
		for _, y := range []int{b.Min.Y, b.Max.Y - 1} {
			for x := b.Min.X; x < b.Max.X; x++ {
				if img.RGBAAt(x, y).A != 0 {
					t.Fatalf("%v %s: ink at edge row %d of %v", tc.lines, tc.orientation, y, b)
				}
			}
		}
	}
}

func TestRasterizeCurvedDeterministic(t *testing.T) {
	s := New()
	spec := layout.DefaultFont()
	plan, err := layout.Curved([]string{"Hello", "arc"}, style.AlignCenter, spec, s)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	encode := func() []byte {
		img, err := s.Rasterize(plan, spec)
		if err != nil {
			t.Fatalf("rasterize: %v", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(encode(), encode()) {
		t.Fatalf("rasterization should be deterministic")
	}
}

func TestRasterizeEmpty(t *testing.T) {
	img, err := New().Rasterize(&layout.TextPlan{}, layout.DefaultFont())
	if err != nil || img != nil {
		t.Fatalf("empty plan should rasterize to nil, got %v (%v)", img, err)
	}
}

func TestStrokeOffsets(t *testing.T) {
	offsets := strokeOffsets(10)
	if len(offsets) != 24 {
		t.Fatalf("expected 24 offsets, got %d", len(offsets))
	}
	for _, o := range offsets {
		if r := math.Hypot(o[0], o[1]); r > 10+1e-9 {
			t.Fatalf("offset %v outside stroke radius", o)
		}
	}
	if strokeOffsets(0) != nil {
		t.Fatalf("zero stroke needs no offsets")
	}
}
