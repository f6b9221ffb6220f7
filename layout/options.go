package layout

// 默认排版参数，与贴纸底图的尺寸（数百像素）相匹配。
const (
	DefaultFontSize    = 100.0
	DefaultLineHeight  = 0.85
	DefaultStrokeWidth = 20.0
	DefaultFill        = "#1b1b1b"
	DefaultStroke      = "#ffffff"
)

// FontSpec 汇总一次排版所需的字体与描边参数。
type FontSpec struct {
	Source      string  `json:"source"`      // "embed:gobold" 或字体文件路径
	Size        float64 `json:"size"`        // 像素
	LineHeight  float64 `json:"lineHeight"`  // 行距系数，行距 = Size × LineHeight
	StrokeWidth float64 `json:"strokeWidth"` // 描边线宽，向字形两侧各扩展一半
	Fill        Color   `json:"fill"`
	Stroke      Color   `json:"stroke"`
}

// DefaultFont 返回默认字号、行距、描边宽度与配色。
func DefaultFont() FontSpec {
	return FontSpec{
		Source:      "embed:gobold",
		Size:        DefaultFontSize,
		LineHeight:  DefaultLineHeight,
		StrokeWidth: DefaultStrokeWidth,
		Fill:        MustColor(DefaultFill),
		Stroke:      MustColor(DefaultStroke),
	}
}

// Pitch 返回行（或竖排列）间距。
func (f FontSpec) Pitch() float64 { return f.Size * f.LineHeight }

// Measurer 负责文本测量，由绘制后端实现，布局阶段因此不依赖具体渲染库。
type Measurer interface {
	TextWidth(text string, font FontSpec) (float64, error)
	FontMetrics(font FontSpec) (Metrics, error)
}
