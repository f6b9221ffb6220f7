package renderer

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ByLCY/sticker/layout"
)

// Surface 是绘制后端：为布局提供文本测量，并把排版结果光栅化为透明底的文字图层。
// 每个字形先描边再填充，填充始终压在描边之上。
type Surface interface {
	layout.Measurer
	Rasterize(plan *layout.TextPlan, font layout.FontSpec) (*image.RGBA, error)
}

// LayerFunc 光栅化单个图层，返回的图像尺寸应与图层一致。
type LayerFunc func(layer layout.Layer) (*image.RGBA, error)

// Assemble 依次光栅化各图层并按偏移叠放到整体画布上。空排版返回 nil。
func Assemble(plan *layout.TextPlan, drawLayer LayerFunc) (*image.RGBA, error) {
	if plan.Empty() {
		return nil, nil
	}
	w, h := plan.PixelSize()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, layer := range plan.Layers {
		if len(layer.Glyphs) == 0 {
			continue
		}
		img, err := drawLayer(layer)
		if err != nil {
			return nil, fmt.Errorf("绘制第 %d 个图层失败: %w", i+1, err)
		}
		at := image.Pt(int(math.Round(layer.OffsetX)), int(math.Round(layer.OffsetY)))
		draw.Draw(out, img.Bounds().Add(at), img, img.Bounds().Min, draw.Over)
	}
	return out, nil
}

// LayerSize 返回图层的整数像素尺寸，至少为 1×1。
func LayerSize(layer layout.Layer) (int, int) {
	return max(1, int(math.Ceil(layer.Width))), max(1, int(math.Ceil(layer.Height)))
}
