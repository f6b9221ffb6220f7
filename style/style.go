// Package style 描述文字在底图上的摆放策略，并提供按 id 查找样式的样式表。
package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/sticker/errors"
)

// Edge 是文字块贴靠的画布边。
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

var edgeNames = []string{"top", "bottom", "left", "right"}

func (e Edge) String() string { return enumName(edgeNames, int(e)) }

// MarshalText 让 Edge 在 JSON/TOML 中以名称出现。
func (e Edge) MarshalText() ([]byte, error) { return marshalEnum(edgeNames, int(e), "edge") }

func (e *Edge) UnmarshalText(b []byte) error {
	v, err := ParseEdge(string(b))
	if err == nil {
		*e = v
	}
	return err
}

// ParseEdge 解析 top/bottom/left/right。
func ParseEdge(s string) (Edge, error) {
	i, err := parseEnum(edgeNames, s, "edge")
	return Edge(i), err
}

// Vertical 表示文字块贴靠左右边，此时约束轴为宽度。
func (e Edge) Vertical() bool { return e == EdgeLeft || e == EdgeRight }

// Align 是行内（或列内）对齐方式。
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

var alignNames = []string{"center", "left", "right"}

func (a Align) String() string { return enumName(alignNames, int(a)) }

func (a Align) MarshalText() ([]byte, error) { return marshalEnum(alignNames, int(a), "align") }

func (a *Align) UnmarshalText(b []byte) error {
	v, err := ParseAlign(string(b))
	if err == nil {
		*a = v
	}
	return err
}

// ParseAlign 解析 center/left/right。
func ParseAlign(s string) (Align, error) {
	i, err := parseEnum(alignNames, s, "align")
	return Align(i), err
}

// Orientation 是排版方向。
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

var orientationNames = []string{"horizontal", "vertical"}

func (o Orientation) String() string { return enumName(orientationNames, int(o)) }

func (o Orientation) MarshalText() ([]byte, error) {
	return marshalEnum(orientationNames, int(o), "orientation")
}

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err == nil {
		*o = v
	}
	return err
}

// ParseOrientation 解析 horizontal/vertical。
func ParseOrientation(s string) (Orientation, error) {
	i, err := parseEnum(orientationNames, s, "orientation")
	return Orientation(i), err
}

// Style 是一张底图的文字摆放策略。值类型，按值传递即不可变。
type Style struct {
	Edge        Edge        `json:"edge"`
	Rotate      float64     `json:"rotate"` // 角度制，正值为顺时针
	Curve       bool        `json:"curve"`
	Align       Align       `json:"align"`
	Orientation Orientation `json:"orientation"`
	Share       float64     `json:"share"` // 约束轴上文字块最多占用的比例，(0,1]
}

// Radians 返回旋转角的弧度值。
func (s Style) Radians() float64 { return s.Rotate * math.Pi / 180 }

// Curved 报告是否真正走弧形排版：竖排时弯曲被静默忽略。
func (s Style) Curved() bool { return s.Curve && s.Orientation == Horizontal }

// Effective 返回实际生效的样式，竖排样式的 Curve 会被清除。
func (s Style) Effective() Style {
	s.Curve = s.Curved()
	return s
}

// Validate 检查各字段是否在定义域内。
func (s Style) Validate() error {
	if !(s.Share > 0 && s.Share <= 1) {
		return errors.New(errors.ErrCodeInvalidStyle, "占屏比 %v 超出 (0,1]", s.Share)
	}
	if math.IsNaN(s.Rotate) || math.IsInf(s.Rotate, 0) || math.Abs(s.Rotate) >= 90 {
		return errors.New(errors.ErrCodeInvalidStyle, "旋转角 %v 超出 (-90,90)", s.Rotate)
	}
	if s.Edge < EdgeTop || s.Edge > EdgeRight {
		return errors.New(errors.ErrCodeInvalidStyle, "未知的贴边 %d", int(s.Edge))
	}
	if s.Align < AlignCenter || s.Align > AlignRight {
		return errors.New(errors.ErrCodeInvalidStyle, "未知的对齐方式 %d", int(s.Align))
	}
	if s.Orientation < Horizontal || s.Orientation > Vertical {
		return errors.New(errors.ErrCodeInvalidStyle, "未知的排版方向 %d", int(s.Orientation))
	}
	return nil
}

func (s Style) String() string {
	return fmt.Sprintf("edge=%s rotate=%g curve=%t align=%s orientation=%s share=%g",
		s.Edge, s.Rotate, s.Curve, s.Align, s.Orientation, s.Share)
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("invalid(%d)", i)
	}
	return names[i]
}

func marshalEnum(names []string, i int, kind string) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("无效的 %s 值 %d", kind, i)
	}
	return []byte(names[i]), nil
}

func parseEnum(names []string, s, kind string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == key {
			return i, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidStyle, "未知的 %s: %q", kind, s)
}
