// Package compose 把文字图层缩放、旋转后贴到底图上，并编码为 PNG。
package compose

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/style"
)

// Options 控制合成画布。
type Options struct {
	// Padding 大于 1 时按比例放大画布并把底图居中，给文字留出边距。
	Padding float64
}

// Composer 执行合成，本身无状态，可并发使用。
type Composer struct {
	opts Options
}

// New creates a composer.
func New(opts Options) *Composer {
	return &Composer{opts: opts}
}

// Decode 解码底图字节，失败时返回 ASSET_LOAD。
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeAssetLoad, "底图数据为空")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "解码底图失败")
	}
	return img, nil
}

// ComposeBytes 解码底图后合成。
func (c *Composer) ComposeBytes(baseData []byte, text *image.RGBA, st style.Style) ([]byte, error) {
	base, err := Decode(baseData)
	if err != nil {
		return nil, err
	}
	return c.Compose(base, text, st)
}

// Compose 合成并编码为 PNG。要么返回完整的 PNG，要么返回错误。
func (c *Composer) Compose(base image.Image, text *image.RGBA, st style.Style) ([]byte, error) {
	canvas, err := c.ComposeImage(base, text, st)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "编码 PNG 失败")
	}
	return buf.Bytes(), nil
}

// ComposeImage 返回合成后的画布。text 为空（nil 或零尺寸）时只绘制底图。
func (c *Composer) ComposeImage(base image.Image, text *image.RGBA, st style.Style) (*image.RGBA, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if base == nil || base.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeAssetLoad, "底图为空")
	}

	bw, bh := base.Bounds().Dx(), base.Bounds().Dy()
	cw, ch := bw, bh
	if c.opts.Padding > 1 {
		cw = int(math.Ceil(float64(bw) * c.opts.Padding))
		ch = int(math.Ceil(float64(bh) * c.opts.Padding))
	}
	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	at := image.Pt((cw-bw)/2, (ch-bh)/2)
	draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(base.Bounds().Size())}, base, base.Bounds().Min, draw.Over)

	if text == nil || text.Bounds().Empty() {
		return canvas, nil
	}
	tw, th := text.Bounds().Dx(), text.Bounds().Dy()
	m, _ := Placement(float64(cw), float64(ch), float64(tw), float64(th), st)
	m = m.Translate(-float64(text.Bounds().Min.X), -float64(text.Bounds().Min.Y))
	draw.CatmullRom.Transform(canvas, affine(m), text, text.Bounds(), draw.Over, nil)
	return canvas, nil
}

// Placement 计算文字图层（tw×th）到画布（cw×ch）的变换以及缩放比。
//
// 缩放比让文字在约束轴（上下贴边时为高度，左右贴边时为宽度）上不超过 Share，
// 在自由轴上不超出画布。不旋转时文字贴边并沿自由轴居中；旋转时绕一个离贴靠边
// (垂直方向画布尺寸/2)·|sin θ| 的支点旋转，使旋转后靠近该边的角不越界。
func Placement(cw, ch, tw, th float64, st style.Style) (gg.Matrix, float64) {
	var s float64
	if st.Edge.Vertical() {
		s = math.Min(cw/tw*st.Share, ch/th)
	} else {
		s = math.Min(cw/tw, ch/th*st.Share)
	}
	dw, dh := tw*s, th*s

	if st.Rotate == 0 {
		var x, y float64
		switch st.Edge {
		case style.EdgeBottom:
			x, y = (cw-dw)/2, ch-dh
		case style.EdgeLeft:
			x, y = 0, (ch-dh)/2
		case style.EdgeRight:
			x, y = cw-dw, (ch-dh)/2
		default:
			x, y = (cw-dw)/2, 0
		}
		return gg.Identity().Translate(x, y).Scale(s, s), s
	}

	rad := st.Radians()
	sin := math.Abs(math.Sin(rad))
	var px, py, dx, dy float64
	switch st.Edge {
	case style.EdgeBottom:
		px, py, dx, dy = cw/2, ch-cw/2*sin, -dw/2, -dh
	case style.EdgeLeft:
		px, py, dx, dy = ch/2*sin, ch/2, 0, -dh/2
	case style.EdgeRight:
		px, py, dx, dy = cw-ch/2*sin, ch/2, -dw, -dh/2
	default:
		px, py, dx, dy = cw/2, cw/2*sin, -dw/2, 0
	}
	return gg.Identity().Translate(px, py).Rotate(rad).Translate(dx, dy).Scale(s, s), s
}

// Corners 返回 w×h 矩形经 m 变换后的四个角：左上、右上、右下、左下。
func Corners(m gg.Matrix, w, h float64) [4][2]float64 {
	var out [4][2]float64
	for i, p := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		out[i][0], out[i][1] = m.TransformPoint(p[0], p[1])
	}
	return out
}

func affine(m gg.Matrix) f64.Aff3 {
	return f64.Aff3{m.XX, m.XY, m.X0, m.YX, m.YY, m.Y0}
}
