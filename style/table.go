package style

import (
	"sort"

	"github.com/ByLCY/sticker/errors"
)

// DefaultShare 是默认样式表使用的占屏比。
const DefaultShare = 0.4

// Blank 是样式表中新声明样式的起点：顶部居中横排、不旋转。
var Blank = Style{Edge: EdgeTop, Align: AlignCenter, Orientation: Horizontal, Share: DefaultShare}

// Table 是按小整数 id 索引的样式表。创建后只读，可并发使用。
type Table struct {
	styles map[int]Style
}

// NewTable 校验并复制给定样式。
func NewTable(styles map[int]Style) (*Table, error) {
	t := &Table{styles: make(map[int]Style, len(styles))}
	for id, s := range styles {
		if err := s.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "样式 %d 无效", id)
		}
		t.styles[id] = s
	}
	return t, nil
}

// Default 返回内置的十种样式：1-4 贴顶横排，5-7 贴右竖排，8-10 贴左竖排。
func Default() *Table {
	vertical := func(edge Edge, rotate float64) Style {
		s := Blank
		s.Edge, s.Rotate, s.Orientation = edge, rotate, Vertical
		return s
	}
	top := func(rotate float64, curve bool) Style {
		s := Blank
		s.Rotate, s.Curve = rotate, curve
		return s
	}
	return &Table{styles: map[int]Style{
		1:  top(0, true),
		2:  top(5, false),
		3:  top(0, false),
		4:  top(-5, false),
		5:  vertical(EdgeRight, 5),
		6:  vertical(EdgeRight, 0),
		7:  vertical(EdgeRight, -5),
		8:  vertical(EdgeLeft, 5),
		9:  vertical(EdgeLeft, 0),
		10: vertical(EdgeLeft, -5),
	}}
}

// Resolve 按 id 查找样式。缺失属于配置错误，返回 UNKNOWN_STYLE。
func (t *Table) Resolve(id int) (Style, error) {
	if t != nil {
		if s, ok := t.styles[id]; ok {
			return s, nil
		}
	}
	return Style{}, errors.New(errors.ErrCodeUnknownStyle, "样式 %d 不存在", id)
}

// IDs 返回升序排列的全部样式 id。
func (t *Table) IDs() []int {
	if t == nil {
		return nil
	}
	ids := make([]int, 0, len(t.styles))
	for id := range t.styles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len 返回样式数量。
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.styles)
}

func (t *Table) clone() map[int]Style {
	out := make(map[int]Style, t.Len())
	if t != nil {
		for id, s := range t.styles {
			out[id] = s
		}
	}
	return out
}
