package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/sticker/dsl"
	"github.com/ByLCY/sticker/errors"
)

// LoadSheet 解析样式表并叠加到 base 之上，返回新的样式表。
// 已存在的 id 在原样式基础上打补丁，新 id 从 Blank 开始。
func LoadSheet(r io.Reader, base *Table) (*Table, error) {
	sheet, err := dsl.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "解析样式表失败")
	}
	return applySheet(sheet, base)
}

func applySheet(sheet *dsl.Sheet, base *Table) (*Table, error) {
	styles := base.clone()
	seen := make(map[int]bool, len(sheet.Styles))
	for _, block := range sheet.Styles {
		if block.ID <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "第 %d 行: 样式 id 必须为正整数", block.Pos.Line)
		}
		if seen[block.ID] {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "第 %d 行: 样式 %d 重复声明", block.Pos.Line, block.ID)
		}
		seen[block.ID] = true

		s, ok := styles[block.ID]
		if !ok {
			s = Blank
		}
		s, err := applyProperties(s, block.Properties)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "样式 %d", block.ID)
		}
		styles[block.ID] = s
	}
	return NewTable(styles)
}

// Apply 用内联补丁（如 "rotate: 10, curve: true"）修改样式，并校验结果。
func (s Style) Apply(override string) (Style, error) {
	ov, err := dsl.ParseOverride(override)
	if err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "解析样式补丁失败")
	}
	out, err := applyProperties(s, ov.Properties)
	if err != nil {
		return Style{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "应用样式补丁失败")
	}
	if err := out.Validate(); err != nil {
		return Style{}, err
	}
	return out, nil
}

func applyProperties(s Style, props []*dsl.Property) (Style, error) {
	for _, p := range props {
		if err := applyProperty(&s, p); err != nil {
			return Style{}, fmt.Errorf("第 %d 行 %s: %w", p.Pos.Line, p.Key, err)
		}
	}
	return s, nil
}

func applyProperty(s *Style, p *dsl.Property) error {
	var err error
	switch strings.ToLower(p.Key) {
	case "edge":
		s.Edge, err = ParseEdge(p.Value.Text())
	case "rotate", "rotation":
		s.Rotate, err = p.Value.Float()
	case "curve", "curved":
		s.Curve, err = p.Value.Bool()
	case "align", "alignment":
		s.Align, err = ParseAlign(p.Value.Text())
	case "orientation", "direction":
		s.Orientation, err = ParseOrientation(p.Value.Text())
	case "share":
		s.Share, err = p.Value.Float()
	default:
		err = fmt.Errorf("未知属性")
	}
	return err
}
