// Package sheet 把底图目录渲染成一张带编号的缩略图总览，方便挑选 id。
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/sticker/cache"
	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/compose"
	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/renderer"
	"github.com/ByLCY/sticker/style"
)

const (
	DefaultThumb      = 100
	DefaultPadding    = 10
	DefaultPerRow     = 12
	DefaultLabelSize  = 30.0
	DefaultLabelColor = "#ff4757"
)

// Options 控制总览图的网格。零值字段使用默认值。
type Options struct {
	Thumb      int     `toml:"thumb"`
	Padding    int     `toml:"padding"`
	PerRow     int     `toml:"per_row"`
	LabelSize  float64 `toml:"label_size"`
	LabelColor string  `toml:"label_color"`
}

func (o Options) withDefaults() Options {
	if o.Thumb <= 0 {
		o.Thumb = DefaultThumb
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.PerRow <= 0 {
		o.PerRow = DefaultPerRow
	}
	if o.LabelSize <= 0 {
		o.LabelSize = DefaultLabelSize
	}
	if !catalog.ValidColor(o.LabelColor) {
		o.LabelColor = DefaultLabelColor
	}
	return o
}

// Grid 返回 n 张缩略图所需的画布尺寸。
func (o Options) Grid(n int) (int, int) {
	o = o.withDefaults()
	if n <= 0 {
		return 0, 0
	}
	cols := min(n, o.PerRow)
	rows := (n + o.PerRow - 1) / o.PerRow
	cell := o.Thumb + o.Padding
	return cols*cell - o.Padding, rows*cell - o.Padding
}

// Build 按 id 顺序绘制目录中全部底图。缩略图等比缩放进 Thumb×Thumb 的格子并居中，
// 左上角叠加 id 标签。
func Build(ctx context.Context, c *catalog.Catalog, surface renderer.Surface, font layout.FontSpec, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()
	entries := c.Entries()
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "底图目录为空")
	}
	w, h := opts.Grid(len(entries))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	label := font
	label.Size = opts.LabelSize
	label.StrokeWidth = 0
	label.Fill = layout.MustColor(opts.LabelColor)

	cell := opts.Thumb + opts.Padding
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := c.LoadBaseImage(e.ID)
		if err != nil {
			return nil, err
		}
		img, err := compose.Decode(data)
		if err != nil {
			return nil, err
		}
		thumb := imaging.Fit(img, opts.Thumb, opts.Thumb, imaging.Lanczos)
		x0, y0 := (i%opts.PerRow)*cell, (i/opts.PerRow)*cell
		tb := thumb.Bounds()
		at := image.Pt(x0+(opts.Thumb-tb.Dx())/2, y0+(opts.Thumb-tb.Dy())/2)
		draw.Draw(out, image.Rectangle{Min: at, Max: at.Add(tb.Size())}, thumb, tb.Min, draw.Over)

		if err := drawLabel(out, strconv.Itoa(e.ID), image.Pt(x0, y0), surface, label); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func drawLabel(dst *image.RGBA, text string, at image.Point, surface renderer.Surface, font layout.FontSpec) error {
	plan, err := layout.Lines([]string{text}, style.Horizontal, style.AlignLeft, font, surface)
	if err != nil {
		return errors.Ensure(errors.ErrCodeInternal, err, "排版标签 %s 失败", text)
	}
	if plan.Empty() {
		return nil
	}
	img, err := surface.Rasterize(plan, font)
	if err != nil {
		return errors.Ensure(errors.ErrCodeInternal, err, "绘制标签 %s 失败", text)
	}
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}, img, img.Bounds().Min, draw.Over)
	return nil
}

// Render 生成 PNG 格式的总览图。fc 非空时按目录内容与参数缓存结果，目录变化后自然失效。
func Render(ctx context.Context, c *catalog.Catalog, surface renderer.Surface, font layout.FontSpec, opts Options, fc *cache.FileCache) ([]byte, bool, error) {
	opts = opts.withDefaults()
	key, err := cacheKey(c, font, opts)
	if err != nil {
		return nil, false, err
	}
	if fc != nil {
		if data, ok, err := fc.Get(key); err == nil && ok {
			return data, true, nil
		}
	}

	img, err := Build(ctx, c, surface, font, opts)
	if err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "编码总览图失败")
	}
	if fc != nil {
		if err := fc.Set(key, buf.Bytes()); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "写入总览图缓存失败")
		}
	}
	return buf.Bytes(), false, nil
}

func cacheKey(c *catalog.Catalog, font layout.FontSpec, opts Options) (string, error) {
	entries, err := json.Marshal(c.Entries())
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "序列化底图目录失败")
	}
	params, err := json.Marshal(struct {
		Font layout.FontSpec
		Opts Options
	}{font, opts})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "序列化总览图参数失败")
	}
	return "sheet:" + cache.Hash(entries, params), nil
}
