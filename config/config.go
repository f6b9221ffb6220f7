// Package config 读取 sticker.toml。文件中的值覆盖 Default()，命令行参数再覆盖文件。
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ByLCY/sticker/catalog"
	"github.com/ByLCY/sticker/errors"
	"github.com/ByLCY/sticker/fonts"
	"github.com/ByLCY/sticker/layout"
	"github.com/ByLCY/sticker/sheet"
)

// FileName 是未指定 --config 时在当前目录查找的配置文件名。
const FileName = "sticker.toml"

// 可选的绘制后端。
const (
	SurfaceGG     = "gg"
	SurfaceCanvas = "canvas"
)

type Config struct {
	DataDir  string `toml:"data_dir"`  // 底图与目录文件所在目录
	Catalog  string `toml:"catalog"`   // 相对 data_dir
	ExtraDir string `toml:"extra_dir"` // 额外底图目录，条目 id 接在主目录之后
	Styles   string `toml:"styles"`    // 可选的样式表文件
	Surface  string `toml:"surface"`
	CacheDir string `toml:"cache_dir"` // 为空时不落盘缓存
	LogLevel string `toml:"log_level"`

	Font        string  `toml:"font"`      // "embed:gobold"、字体文件路径，或 canvas 后端的 "system:<字体名>"
	FontSize    string  `toml:"font_size"` // "100px"、"75pt"、"26mm"
	LineHeight  float64 `toml:"line_height"`
	StrokeWidth float64 `toml:"stroke_width"`
	StrokeColor string  `toml:"stroke_color"`
	Padding     float64 `toml:"padding"` // 大于 1 时放大画布，给文字留白

	Sheet sheet.Options `toml:"sheet"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:     ".",
		Catalog:     "catalog.json",
		Surface:     SurfaceGG,
		LogLevel:    "info",
		Font:        fonts.Default,
		FontSize:    "100px",
		LineHeight:  layout.DefaultLineHeight,
		StrokeWidth: layout.DefaultStrokeWidth,
		StrokeColor: layout.DefaultStroke,
	}
}

// Load 读取配置文件。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "读取配置文件 %s 失败", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, err
	}
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
	}
	return cfg, nil
}

// Discover 在 path 为空时尝试当前目录下的 FileName，不存在则返回默认配置。
func Discover(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(FileName); err == nil {
		return Load(FileName)
	}
	return Default(), nil
}

// Parse 解析 TOML 文本。未知键视为错误，避免拼写错误被静默忽略。
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "解析配置失败")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeConfig, "未知的配置项: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	switch c.Surface {
	case SurfaceGG, SurfaceCanvas:
	default:
		return errors.New(errors.ErrCodeConfig, "未知的绘制后端 %q", c.Surface)
	}
	if c.Catalog == "" {
		return errors.New(errors.ErrCodeConfig, "缺少底图目录文件")
	}
	if _, err := c.FontSpec(); err != nil {
		return err
	}
	if name, ok := fonts.System(c.Font); ok && c.Surface != SurfaceCanvas {
		return errors.New(errors.ErrCodeConfig, "系统字体 %q 需要 surface = %q", name, SurfaceCanvas)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Padding < 0 {
		return errors.New(errors.ErrCodeConfig, "padding %g 不能为负", c.Padding)
	}
	return nil
}

// FontSpec 返回排版使用的字体参数。文字填充色由底图决定，这里只给默认值。
func (c Config) FontSpec() (layout.FontSpec, error) {
	size, err := layout.ParseLength(c.FontSize)
	if err != nil {
		return layout.FontSpec{}, errors.Wrap(errors.ErrCodeConfig, err, "font_size 无效")
	}
	if size.Pixels() <= 0 {
		return layout.FontSpec{}, errors.New(errors.ErrCodeConfig, "font_size 必须为正")
	}
	if c.LineHeight <= 0 {
		return layout.FontSpec{}, errors.New(errors.ErrCodeConfig, "line_height %g 必须为正", c.LineHeight)
	}
	if c.StrokeWidth < 0 {
		return layout.FontSpec{}, errors.New(errors.ErrCodeConfig, "stroke_width %g 不能为负", c.StrokeWidth)
	}
	if !catalog.ValidColor(c.StrokeColor) {
		return layout.FontSpec{}, errors.New(errors.ErrCodeConfig, "stroke_color %q 无效", c.StrokeColor)
	}
	font := layout.DefaultFont()
	font.Source = c.Font
	font.Size = size.Pixels()
	font.LineHeight = c.LineHeight
	font.StrokeWidth = c.StrokeWidth
	font.Stroke = layout.MustColor(c.StrokeColor)
	return font, nil
}

// Level 解析日志级别。
func (c Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeConfig, err, "log_level 无效")
	}
	return level, nil
}

// Path 把相对路径解析到 data_dir 下。
func (c Config) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.DataDir, rel)
}
