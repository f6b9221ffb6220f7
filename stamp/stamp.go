// Package stamp 串联整条贴纸渲染流水线：
// 底图目录 → 样式解析 → 排版（直排或弧形）→ 光栅化 → 合成 → PNG。
package stamp

import (
	"context"
	"image"
	"io"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/sticker/binding"
	"github.com/ByLCY/sticker/cache"
	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/compose"
	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/renderer"
	"github.com/ByLCY/sticker/style"
)

var slashRuns = regexp.MustCompile(`/+`)

// NormalizeText 把连续的 "/" 视为一次换行，并统一换行符。
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return slashRuns.ReplaceAllString(text, "\n")
}

// Request 是一次渲染请求。
type Request struct {
	Text     string
	ImageID  int    // catalog.RandomID 表示随机
	StyleID  int    // 0 表示使用底图的默认样式
	Override string // 内联样式补丁，例如 "rotate: 10"
	Color    string // 文字颜色，非法时回退到底图颜色
	Data     any    // 文字中 ${...} 占位符的取值
}

// Result 是渲染产物以及实际采用的参数，便于调用方回显。
type Result struct {
	PNG   []byte
	Entry catalog.Entry
	Style style.Style
	Plan  *layout.TextPlan
}

// Config 汇总 Renderer 的依赖。Catalog、Surface 必填，其余有默认值。
type Config struct {
	Catalog  *catalog.Catalog
	Styles   *style.Table
	Surface  renderer.Surface
	Composer *compose.Composer
	Images   cache.Images
	Font     layout.FontSpec
	Logger   *log.Logger
	Rand     *rand.Rand
}

// Renderer 可并发使用。
type Renderer struct {
	catalog  *catalog.Catalog
	styles   *style.Table
	surface  renderer.Surface
	composer *compose.Composer
	images   cache.Images
	font     layout.FontSpec
	logger   *log.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New validates the configuration and fills defaults.
func New(cfg Config) (*Renderer, error) {
	if cfg.Catalog == nil {
		return nil, errors.New(errors.ErrCodeConfig, "缺少底图目录")
	}
	if cfg.Surface == nil {
		return nil, errors.New(errors.ErrCodeConfig, "缺少绘制后端")
	}
	r := &Renderer{
		catalog:  cfg.Catalog,
		styles:   cfg.Styles,
		surface:  cfg.Surface,
		composer: cfg.Composer,
		images:   cfg.Images,
		font:     cfg.Font,
		logger:   cfg.Logger,
		rng:      cfg.Rand,
	}
	if r.styles == nil {
		r.styles = style.Default()
	}
	if r.composer == nil {
		r.composer = compose.New(compose.Options{})
	}
	if r.images == nil {
		r.images = cache.Null{}
	}
	if r.font.Size == 0 {
		r.font = layout.DefaultFont()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(1))
	}
	return r, nil
}

// Render 执行一次完整渲染。要么返回完整的 PNG，要么返回错误，不会产出半成品。
func (r *Renderer) Render(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := r.pick(req.ImageID)
	if err != nil {
		return nil, err
	}
	st, err := r.resolveStyle(entry, req)
	if err != nil {
		return nil, err
	}
	font, err := r.fontFor(entry, req.Color)
	if err != nil {
		return nil, err
	}
	logger := r.logger.With("image", entry.ID)
	logger.Debug("resolved style", "style", st.String())

	lines := layout.SplitLines(NormalizeText(binding.Interpolate(req.Text, req.Data)))
	plan, err := layout.Plan(lines, st, font, r.surface)
	if err != nil {
		return nil, errors.Ensure(errors.ErrCodeInternal, err, "排版失败")
	}

	var text *image.RGBA
	if plan.Empty() {
		logger.Debug("text measures zero, composing base only", "code", errors.ErrCodeMeasurementDegenerate)
	} else {
		w, h := plan.PixelSize()
		logger.Debug("text planned", "width", w, "height", h, "layers", len(plan.Layers), "glyphs", plan.GlyphCount())
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if text, err = r.surface.Rasterize(plan, font); err != nil {
			return nil, errors.Ensure(errors.ErrCodeInternal, err, "光栅化文字失败")
		}
	}

	base, err := r.baseImage(entry, logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := r.composer.Compose(base, text, st)
	if err != nil {
		return nil, err
	}
	return &Result{PNG: png, Entry: entry, Style: st, Plan: plan}, nil
}

func (r *Renderer) pick(id int) (catalog.Entry, error) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.catalog.Pick(id, r.rng)
}

func (r *Renderer) resolveStyle(entry catalog.Entry, req Request) (style.Style, error) {
	id := req.StyleID
	if id == 0 {
		id = entry.StyleID
	}
	st, err := r.styles.Resolve(id)
	if err != nil {
		return style.Style{}, err
	}
	if req.Override != "" {
		if st, err = st.Apply(req.Override); err != nil {
			return style.Style{}, err
		}
	}
	if err := st.Validate(); err != nil {
		return style.Style{}, err
	}
	return st.Effective(), nil
}

func (r *Renderer) fontFor(entry catalog.Entry, override string) (layout.FontSpec, error) {
	font := r.font
	fill, err := layout.ParseColor(entry.TextColor(override))
	if err != nil {
		return layout.FontSpec{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "底图 %d 的颜色无效", entry.ID)
	}
	font.Fill = fill
	return font, nil
}

func (r *Renderer) baseImage(entry catalog.Entry, logger *log.Logger) (image.Image, error) {
	key := entry.Key()
	if img, ok := r.images.Get(key); ok {
		logger.Debug("base image cache hit")
		return img, nil
	}
	data, err := r.catalog.LoadBaseImage(entry.ID)
	if err != nil {
		return nil, err
	}
	img, err := compose.Decode(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("base image decoded", "path", entry.Path())
	return r.images.Put(key, img), nil
}
