// Package binding 展开贴纸文字中的占位符。
//
//	${user.name}        取 data["user"]["name"]
//	${items[0]}         支持数组下标
//	${user.name|某人}   路径不存在时使用 "|" 之后的默认值
//	$${literal}         输出 ${literal} 本身
//
// 路径不存在且没有默认值时保留原占位符，方便用户看出拼写错误。
package binding

import (
	"fmt"
	"strconv"
	"strings"
)

// Interpolate 用 data 展开 text 中的占位符。data 通常来自 JSON 解码（map[string]any、[]any）。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for {
		i := strings.Index(text, "${")
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		if i > 0 && text[i-1] == '$' {
			b.WriteString(text[:i-1])
			b.WriteString("${")
			text = text[i+2:]
			continue
		}
		end := strings.IndexByte(text[i:], '}')
		if end < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(expand(text[i:i+end+1], text[i+2:i+end], data))
		text = text[i+end+1:]
	}
}

func expand(placeholder, expr string, data any) string {
	path, fallback, hasFallback := strings.Cut(expr, "|")
	path = strings.TrimSpace(path)
	if path != "" {
		if v, ok := Resolve(data, path); ok && v != nil {
			return format(v)
		}
	}
	if hasFallback {
		return fallback
	}
	return placeholder
}

// Resolve 按点号路径取值，片段可带 [n] 下标。
func Resolve(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		if rest == "" {
			continue
		}
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			list, ok := current.([]any)
			if !ok || n < 0 || n >= len(list) {
				return nil, false
			}
			current = list[n]
		}
	}
	return current, true
}

// format 让 JSON 中的整数不带小数点输出。
func format(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}
