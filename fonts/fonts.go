package fonts

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/sticker/errors"
)

// Default 是未配置字体时使用的内置字体。内置字体只覆盖拉丁字符，
// 绘制中文时需要把 font 指向支持 CJK 的字体文件，或在 canvas 后端使用 "system:<字体名>"。
const Default = "embed:gobold"

const systemPrefix = "system:"

// System 报告 src 是否为 "system:<字体名>" 形式的系统字体，并返回字体名。
func System(src string) (string, bool) {
	name, ok := strings.CutPrefix(src, systemPrefix)
	return strings.TrimSpace(name), ok
}

var builtin = map[string][]byte{
	"gobold":    gobold.TTF,
	"gomedium":  gomedium.TTF,
	"goregular": goregular.TTF,
}

// Load 返回字体字节数据。src 可写为 "embed:gobold" 这类内置字体名，或直接写字体文件路径。
// 系统字体按名称查找，由绘制后端自行加载，这里返回错误。所有错误均为 ASSET_LOAD。
func Load(src string) ([]byte, error) {
	if src == "" {
		src = Default
	}
	if name, ok := System(src); ok {
		return nil, errors.New(errors.ErrCodeAssetLoad, "系统字体 %q 只能由 canvas 后端加载", name)
	}
	if name, ok := strings.CutPrefix(src, "embed:"); ok {
		data, ok := builtin[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeAssetLoad, "内置字体 %s 不存在，可选: %s", name, strings.Join(Builtin(), ", "))
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "读取字体文件 %s 失败", src)
	}
	return data, nil
}

// Builtin 返回可用的内置字体名。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
