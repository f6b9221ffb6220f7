package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/sticker/style"
)

// verticalPunctuation 中的标点在竖排时向左偏移，偏移量为字宽不足一个字号（且不超过列宽）的一半，
// 因此窄字形的左缘与全角字形对齐，且始终留在本列内；全角字形不偏移。
const verticalPunctuation = "，。；？！、"

// Plan 按样式选择直排或弧形排版。弯曲只对横排生效。
func Plan(lines []string, st style.Style, font FontSpec, m Measurer) (*TextPlan, error) {
	if st.Curved() {
		return Curved(lines, st.Align, font, m)
	}
	return Lines(lines, st.Orientation, st.Align, font, m)
}

// SplitLines 按换行拆分文本。
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// Lines 把多行文本排成一个最小包围的直排图层。
// 测量结果全为零宽时返回空的排版结果，合成阶段会跳过文字层。
func Lines(lines []string, orientation style.Orientation, align style.Align, font FontSpec, m Measurer) (*TextPlan, error) {
	if m == nil {
		return nil, fmt.Errorf("缺少文本测量器")
	}
	if font.Size <= 0 || font.LineHeight <= 0 {
		return nil, fmt.Errorf("字号 %g 或行距 %g 无效", font.Size, font.LineHeight)
	}
	metrics, err := m.FontMetrics(font)
	if err != nil {
		return nil, fmt.Errorf("读取字体度量失败: %w", err)
	}
	if orientation == style.Vertical {
		return verticalLines(lines, align, font, metrics, m)
	}
	return horizontalLines(lines, align, font, metrics, m)
}

func horizontalLines(lines []string, align style.Align, font FontSpec, metrics Metrics, m Measurer) (*TextPlan, error) {
	widths := make([]float64, len(lines))
	maxWidth := 0.0
	for i, line := range lines {
		if line == "" {
			continue
		}
		w, err := m.TextWidth(line, font)
		if err != nil {
			return nil, fmt.Errorf("测量第 %d 行失败: %w", i+1, err)
		}
		widths[i] = w
		maxWidth = max(maxWidth, w)
	}
	if maxWidth <= 0 {
		return &TextPlan{}, nil
	}

	sw := font.StrokeWidth
	pitch := font.Pitch()
	box, ascent := fontBox(font.Size, metrics)
	// 字体框在行距内居中；行距小于字号时仍至少为描边留出半个描边宽。
	margin := max(sw/2, sw+(pitch-font.Size)/2)
	width := maxWidth + 2*sw
	height := float64(len(lines)-1)*pitch + box + 2*margin

	glyphs := make([]Glyph, 0, len(lines))
	for i, line := range lines {
		if widths[i] <= 0 {
			continue
		}
		g := Glyph{Text: line, Y: margin + float64(i)*pitch + ascent}
		switch align {
		case style.AlignLeft:
			g.X = sw
		case style.AlignRight:
			g.X, g.DX = width-sw, -widths[i]
		default:
			g.X, g.DX = width/2, -widths[i]/2
		}
		glyphs = append(glyphs, g)
	}
	return singleLayer(width, height, glyphs), nil
}

func verticalLines(lines []string, align style.Align, font FontSpec, metrics Metrics, m Measurer) (*TextPlan, error) {
	columns := make([][]rune, len(lines))
	longest := 0
	for i, line := range lines {
		columns[i] = []rune(line)
		longest = max(longest, len(columns[i]))
	}
	if longest == 0 {
		return &TextPlan{}, nil
	}

	fs := font.Size
	sw := font.StrokeWidth
	pitch := font.Pitch()
	box, ascent := fontBox(fs, metrics)
	column := fs * float64(longest)
	width := fs*float64(len(lines))*font.LineHeight + 2*sw
	height := column + box - fs + 2*sw
	inset := min(fs, pitch)

	var glyphs []Glyph
	for i, runes := range columns {
		cx := width - sw - (float64(i)+0.5)*pitch
		span := fs * float64(len(runes))
		top := sw
		switch align {
		case style.AlignLeft:
			// 顶端对齐
		case style.AlignRight:
			top += column - span
		default:
			top += (column - span) / 2
		}
		for j, r := range runes {
			ch := string(r)
			w, err := m.TextWidth(ch, font)
			if err != nil {
				return nil, fmt.Errorf("测量第 %d 列第 %d 个字符失败: %w", i+1, j+1, err)
			}
			if w <= 0 {
				continue
			}
			g := Glyph{Text: ch, X: cx, Y: top + float64(j)*fs + ascent, DX: -w / 2}
			if strings.ContainsRune(verticalPunctuation, r) && w < inset {
				g.DX -= (inset - w) / 2
			}
			glyphs = append(glyphs, g)
		}
	}
	return singleLayer(width, height, glyphs), nil
}

// fontBox 返回一行字体框的高度以及框顶到基线的距离。
// 字体框至少一个字号高；ascent+descent 不足一个字号时，字形在字号内垂直居中。
func fontBox(size float64, m Metrics) (height, ascent float64) {
	height = max(size, m.Height())
	return height, m.Ascent + (height-m.Height())/2
}

func singleLayer(width, height float64, glyphs []Glyph) *TextPlan {
	return &TextPlan{
		Width:  width,
		Height: height,
		Layers: []Layer{{Width: width, Height: height, Glyphs: glyphs}},
	}
}
