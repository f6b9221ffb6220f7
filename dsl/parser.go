package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d+|\d+|\.\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;,=]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	parserOptions = []participle.Option{
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	}

	sheetParser    = participle.MustBuild[Sheet](parserOptions...)
	overrideParser = participle.MustBuild[Override](parserOptions...)
)

// Sheet 是样式表文件的根节点：
//
//	# 底部偏左的小号说明文字
//	style 11 {
//	  edge: bottom
//	  rotate: -8
//	  align: left; share: 0.3
//	}
type Sheet struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Styles []*StyleBlock  `parser:"Newline* ( @@ Newline* )*"`
}

// StyleBlock 声明一个样式 id 及其属性。
type StyleBlock struct {
	Pos        lexer.Position `parser:"" json:"-"`
	ID         int            `parser:"'style' @Number"`
	Properties []*Property    `parser:"'{' ( Newline | ';' | ',' )* ( @@ ( Newline | ';' | ',' )* )* '}'"`
}

// Override 是命令行里内联的样式补丁，例如 "rotate: 10, curve: true"。
type Override struct {
	Properties []*Property `parser:"( Newline | ';' | ',' )* ( @@ ( Newline | ';' | ',' )* )*"`
}

// Property 是一个 key: value 对，也接受 key = value。
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ( ':' | '=' )"`
	Value *Value         `parser:"@@"`
}

// Value 只区分数字、字符串与标识符三类，语义交给 style 包解释。
type Value struct {
	Number *float64 `parser:"  @Number"`
	String *string  `parser:"| @String"`
	Ident  *string  `parser:"| @Ident"`
}

// Text 返回值的文本形式，数字按最短表示输出。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.String != nil:
		if unquoted, err := strconv.Unquote(*v.String); err == nil {
			return unquoted
		}
		return *v.String
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Float 返回数字值；字符串形式的数字也接受。
func (v *Value) Float() (float64, error) {
	if v != nil && v.Number != nil {
		return *v.Number, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("期望数字，得到 %q", v.Text())
	}
	return f, nil
}

// Bool 接受 true/false/yes/no/on/off 以及 1/0。
func (v *Value) Bool() (bool, error) {
	switch strings.ToLower(v.Text()) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("期望布尔值，得到 %q", v.Text())
}

// Parse parses a style sheet from an io.Reader.
func Parse(r io.Reader) (*Sheet, error) {
	return sheetParser.Parse("", r)
}

// ParseString parses a style sheet held in memory.
func ParseString(input string) (*Sheet, error) {
	return sheetParser.ParseString("", input)
}

// ParseOverride parses an inline property list. Blank input yields an empty override.
func ParseOverride(input string) (*Override, error) {
	if strings.TrimSpace(input) == "" {
		return &Override{}, nil
	}
	return overrideParser.ParseString("", input)
}
