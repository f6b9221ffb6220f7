package renderer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ByLCY/sticker/layout"
)

func TestAssembleStacksLayers(t *testing.T) {
	plan := &layout.TextPlan{
		Width:  10,
		Height: 14,
		Layers: []layout.Layer{
			{Width: 10, Height: 4, Glyphs: []layout.Glyph{{Text: "a"}}},
			{OffsetY: 10, Width: 10, Height: 4, Glyphs: []layout.Glyph{{Text: "b"}}},
			{OffsetY: 5, Width: 10, Height: 4},
		},
	}
	calls := 0
	img, err := Assemble(plan, func(layer layout.Layer) (*image.RGBA, error) {
		calls++
		w, h := LayerSize(layer)
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		out.Set(0, 0, color.RGBA{R: 255, A: 255})
		return out, nil
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if calls != 2 {
		t.Fatalf("layers without glyphs should be skipped, got %d calls", calls)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 14 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.RGBAAt(0, 10).R != 255 || img.RGBAAt(0, 0).R != 255 {
		t.Fatalf("layers should land at their offsets")
	}
	if img.RGBAAt(0, 5).A != 0 {
		t.Fatalf("empty layer must not paint")
	}
}

func TestAssembleEmptyAndErrors(t *testing.T) {
	img, err := Assemble(&layout.TextPlan{}, nil)
	if img != nil || err != nil {
		t.Fatalf("empty plan should assemble to nil, got %v %v", img, err)
	}
	boom := errors.New("boom")
	plan := &layout.TextPlan{Width: 1, Height: 1, Layers: []layout.Layer{{Width: 1, Height: 1, Glyphs: []layout.Glyph{{Text: "x"}}}}}
	if _, err := Assemble(plan, func(layout.Layer) (*image.RGBA, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected layer error, got %v", err)
	}
}
