package stamp

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/sticker/cache"
	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/layout"
	ggrenderer "github.com/ByLCY/sticker/renderer/gg"
)

func encodeBase(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := imaging.New(w, h, c)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode base: %v", err)
	}
	return buf.Bytes()
}

// countingFS 记录每个文件被打开的次数。只实现 Open，避免 fs.ReadFile 绕过计数。
type countingFS struct {
	files fstest.MapFS
	opens map[string]int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens[name]++
	return c.files.Open(name)
}

func newFixture(t *testing.T) (*countingFS, *catalog.Catalog) {
	t.Helper()
	fsys := &countingFS{
		files: fstest.MapFS{
			"emu/a.png":  {Data: encodeBase(t, 200, 160, color.NRGBA{R: 40, G: 120, B: 220, A: 255})},
			"emu/b.png":  {Data: encodeBase(t, 120, 240, color.NRGBA{R: 240, G: 200, B: 40, A: 255})},
			"broken.png": {Data: []byte("not a png")},
		},
		opens: map[string]int{},
	}
	c, err := catalog.New(fsys, []catalog.Entry{
		{ID: 0, Color: "#ff4757", FileName: "a.png", FileDir: "emu", StyleID: 3},
		{ID: 1, Color: "#1b1b1b", FileName: "b.png", FileDir: "emu", StyleID: 6},
		{ID: 2, Color: "#ffffff", FileName: "broken.png", StyleID: 1},
		{ID: 3, Color: "#ffffff", FileName: "a.png", FileDir: "emu", StyleID: 42},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return fsys, c
}

func newRenderer(t *testing.T, c *catalog.Catalog, images cache.Images) *Renderer {
	t.Helper()
	r, err := New(Config{Catalog: c, Surface: ggrenderer.New(), Images: images})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"hello":       "hello",
		"a/b":         "a\nb",
		"a///b/c":     "a\nb\nc",
		"a\r\nb":      "a\nb",
		"/lead/":      "\nlead\n",
		"no newlines": "no newlines",
	}
	for in, want := range cases {
		if got := NormalizeText(in); got != want {
			t.Fatalf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, cache.NewMemory())
	req := Request{Text: "HI/YO", ImageID: 0}

	first, err := r.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render again: %v", err)
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Fatalf("identical requests produced different output")
	}
	if first.Entry.ID != 0 || first.Style.Edge.String() != "top" {
		t.Fatalf("unexpected entry/style %+v %s", first.Entry, first.Style)
	}
	if len(first.Plan.Layers) != 1 || first.Plan.GlyphCount() == 0 {
		t.Fatalf("expected a planned text layer, got %+v", first.Plan)
	}

	img, err := imaging.Decode(bytes.NewReader(first.PNG))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 160 {
		t.Fatalf("output should keep base size, got %v", b)
	}
}

func TestRenderDrawsText(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, nil)

	plain, err := r.Render(context.Background(), Request{Text: "", ImageID: 0})
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !plain.Plan.Empty() {
		t.Fatalf("empty text should produce an empty plan")
	}
	withText, err := r.Render(context.Background(), Request{Text: "WOW", ImageID: 0})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Equal(plain.PNG, withText.PNG) {
		t.Fatalf("text should change the output")
	}

	img, err := imaging.Decode(bytes.NewReader(plain.PNG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := color.NRGBA{R: 40, G: 120, B: 220, A: 255}
	got := color.NRGBAModel.Convert(img.At(100, 80)).(color.NRGBA)
	if got != want {
		t.Fatalf("empty text should leave the base untouched, got %v", got)
	}
}

func TestRenderCachesBaseImage(t *testing.T) {
	fsys, c := newFixture(t)
	mem := cache.NewMemory()
	r := newRenderer(t, c, mem)

	for i := 0; i < 3; i++ {
		if _, err := r.Render(context.Background(), Request{Text: "A", ImageID: 0}); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	if n := fsys.opens["emu/a.png"]; n != 1 {
		t.Fatalf("base image should be read once, read %d times", n)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected one cached image, got %d", mem.Len())
	}
}

func TestRenderStyleSelection(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, nil)
	ctx := context.Background()

	res, err := r.Render(ctx, Request{Text: "竖排文字", ImageID: 1})
	if err != nil {
		t.Fatalf("render vertical: %v", err)
	}
	if res.Style.Edge.String() != "right" || res.Style.Orientation.String() != "vertical" {
		t.Fatalf("entry default style 6 should be used, got %s", res.Style)
	}

	res, err = r.Render(ctx, Request{Text: "ARC", ImageID: 1, StyleID: 1})
	if err != nil {
		t.Fatalf("render curved: %v", err)
	}
	if !res.Style.Curve || res.Style.Edge.String() != "top" {
		t.Fatalf("explicit style 1 should win, got %s", res.Style)
	}

	res, err = r.Render(ctx, Request{Text: "TILT", ImageID: 0, Override: "edge: bottom; rotate: -8"})
	if err != nil {
		t.Fatalf("render override: %v", err)
	}
	if res.Style.Edge.String() != "bottom" || res.Style.Rotate != -8 {
		t.Fatalf("override not applied, got %s", res.Style)
	}
}

func TestRenderErrors(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"unknown default style", Request{Text: "x", ImageID: 3}, errors.ErrCodeUnknownStyle},
		{"unknown explicit style", Request{Text: "x", ImageID: 0, StyleID: 99}, errors.ErrCodeUnknownStyle},
		{"bad override", Request{Text: "x", ImageID: 0, Override: "share: 2"}, errors.ErrCodeInvalidStyle},
		{"undecodable base", Request{Text: "x", ImageID: 2}, errors.ErrCodeAssetLoad},
		{"missing image id", Request{Text: "x", ImageID: 77}, errors.ErrCodeNotFound},
	}
	for _, tc := range cases {
		_, err := r.Render(ctx, tc.req)
		if !errors.Is(err, tc.code) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.code, err)
		}
	}
}

// failingSurface 测量时返回不带错误码的错误。
type failingSurface struct {
	*ggrenderer.Surface
}

func (failingSurface) TextWidth(string, layout.FontSpec) (float64, error) {
	return 0, fmt.Errorf("measurer exploded")
}

func TestRenderErrorCodesFromLayout(t *testing.T) {
	_, c := newFixture(t)
	ctx := context.Background()

	r, err := New(Config{Catalog: c, Surface: failingSurface{ggrenderer.New()}})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(ctx, Request{Text: "x", ImageID: 0}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Fatalf("measurement failures are internal, got %v", err)
	}

	font := layout.DefaultFont()
	font.Source = "embed:missing"
	r, err = New(Config{Catalog: c, Surface: ggrenderer.New(), Font: font})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(ctx, Request{Text: "x", ImageID: 0}); !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("font load failures keep ASSET_LOAD, got %v", err)
	}
}

func TestRenderInterpolatesText(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, nil)
	ctx := context.Background()

	direct, err := r.Render(ctx, Request{Text: "HI/BOB", ImageID: 0})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	bound, err := r.Render(ctx, Request{
		Text:    "${greet}/${user.name|NOBODY}",
		ImageID: 0,
		Data:    map[string]any{"greet": "HI", "user": map[string]any{"name": "BOB"}},
	})
	if err != nil {
		t.Fatalf("render with data: %v", err)
	}
	if !bytes.Equal(direct.PNG, bound.PNG) {
		t.Fatalf("placeholders should expand before layout")
	}
}

func TestRenderHonoursCancellation(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, Request{Text: "x", ImageID: 0}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderRandomPick(t *testing.T) {
	_, c := newFixture(t)
	r := newRenderer(t, c, nil)
	seen := map[int]bool{}
	for i := 0; i < 40; i++ {
		res, err := r.Render(context.Background(), Request{Text: "", ImageID: catalog.RandomID, StyleID: 3})
		if err != nil {
			if errors.Is(err, errors.ErrCodeAssetLoad) {
				continue
			}
			t.Fatalf("random render: %v", err)
		}
		seen[res.Entry.ID] = true
	}
	if len(seen) < 2 {
		t.Fatalf("random pick should reach several entries, saw %v", seen)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
	_, c := newFixture(t)
	if _, err := New(Config{Catalog: c}); !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("expected CONFIG error without surface, got %v", err)
	}
}
