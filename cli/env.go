package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/config"
	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/renderer"
	canvasrenderer "github.com/ByLCY/sticker/renderer/canvas"
	ggrenderer "github.com/ByLCY/sticker/renderer/gg"
	"github.com/ByLCY/sticker/style"
)

// env 是按配置装配好的渲染依赖。
type env struct {
	catalog *catalog.Catalog
	styles  *style.Table
	surface renderer.Surface
	font    layout.FontSpec
}

func (c *CLI) loadEnv(ctx context.Context) (*env, error) {
	cfg := c.cfg
	font, err := cfg.FontSpec()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	styles, err := loadStyles(cfg)
	if err != nil {
		return nil, err
	}
	surface, err := newSurface(cfg.Surface)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("environment ready",
		"data", cfg.DataDir, "images", cat.Len(), "styles", styles.Len(), "surface", cfg.Surface)
	return &env{catalog: cat, styles: styles, surface: surface, font: font}, nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(os.DirFS(cfg.DataDir), filepath.ToSlash(filepath.Clean(cfg.Catalog)))
	if err != nil {
		return nil, err
	}
	if cfg.ExtraDir == "" {
		return cat, nil
	}
	extra, err := catalog.FromDir(os.DirFS(cfg.Path(cfg.ExtraDir)))
	if err != nil {
		return nil, err
	}
	return cat.Merge(extra), nil
}

func loadStyles(cfg config.Config) (*style.Table, error) {
	if cfg.Styles == "" {
		return style.Default(), nil
	}
	f, err := os.Open(cfg.Path(cfg.Styles))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "打开样式表失败")
	}
	defer f.Close()
	return style.LoadSheet(f, style.Default())
}

func newSurface(name string) (renderer.Surface, error) {
	switch name {
	case config.SurfaceGG, "":
		return ggrenderer.New(), nil
	case config.SurfaceCanvas:
		return canvasrenderer.New(), nil
	}
	return nil, errors.New(errors.ErrCodeConfig, "未知的绘制后端 %q", name)
}

// writeOutput 写入文件，path 为 "-" 时写到标准输出。
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "创建输出目录失败")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "写入 %s 失败", path)
	}
	return nil
}
