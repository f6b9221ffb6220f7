// Package catalog 管理底图目录：每张底图的文件位置、默认文字颜色与默认样式 id。
package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"math/rand"
	"path"
	"regexp"
	"sort"

	"github.com/ByLCY/sticker/errors"
)

// RandomID 表示随机挑选一张底图。
const RandomID = -1

var colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ValidColor 报告 s 是否为 #rgb 或 #rrggbb。
func ValidColor(s string) bool { return colorPattern.MatchString(s) }

// Entry 对应目录 JSON 中的一项。
type Entry struct {
	ID       int    `json:"id"`
	Color    string `json:"color"`
	FileName string `json:"fileName"`
	FileDir  string `json:"fileDir"`
	StyleID  int    `json:"defaultStyleId"`
}

// Path 返回底图在数据目录中的相对路径。
func (e Entry) Path() string { return path.Join(e.FileDir, e.FileName) }

// TextColor 返回文字颜色：override 合法时优先，否则使用底图自带的颜色。
func (e Entry) TextColor(override string) string {
	if ValidColor(override) {
		return override
	}
	return e.Color
}

type record struct {
	Entry
	fsys fs.FS
}

// Catalog 是只读的底图目录，可并发使用。
type Catalog struct {
	records []record // 按 id 升序
	byID    map[int]int
}

// Load 从 fsys 读取 JSON 目录文件，底图路径相对于 fsys 解析。
func Load(fsys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "读取底图目录 %s 失败", name)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "底图目录 %s 格式错误", name)
	}
	return New(fsys, entries)
}

// New 校验并构建目录：id 不可重复或为负，颜色必须合法，文件名不能为空。
func New(fsys fs.FS, entries []Entry) (*Catalog, error) {
	c := &Catalog{byID: make(map[int]int, len(entries))}
	for _, e := range entries {
		if e.ID < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "底图 id %d 不能为负", e.ID)
		}
		if !ValidColor(e.Color) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "底图 %d 的颜色 %q 无效", e.ID, e.Color)
		}
		if e.FileName == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "底图 %d 缺少文件名", e.ID)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "底图 id %d 重复", e.ID)
		}
		c.byID[e.ID] = -1
		c.records = append(c.records, record{Entry: e, fsys: fsys})
	}
	c.reindex()
	return c, nil
}

func (c *Catalog) reindex() {
	sort.Slice(c.records, func(i, j int) bool { return c.records[i].ID < c.records[j].ID })
	for i, r := range c.records {
		c.byID[r.ID] = i
	}
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.records) }

// Entries 返回按 id 升序排列的全部条目副本。
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.records))
	for i, r := range c.records {
		out[i] = r.Entry
	}
	return out
}

// Entry 按 id 查找底图。
func (c *Catalog) Entry(id int) (Entry, error) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "底图 %d 不存在", id)
	}
	return c.records[i].Entry, nil
}

// Random 随机挑选一张底图。
func (c *Catalog) Random(rng *rand.Rand) (Entry, error) {
	if len(c.records) == 0 {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "底图目录为空")
	}
	return c.records[rng.Intn(len(c.records))].Entry, nil
}

// Pick 在 id 为 RandomID 时随机挑选，否则按 id 查找。
func (c *Catalog) Pick(id int, rng *rand.Rand) (Entry, error) {
	if id == RandomID {
		return c.Random(rng)
	}
	return c.Entry(id)
}

// LoadBaseImage 读取底图原始字节。
func (c *Catalog) LoadBaseImage(id int) ([]byte, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "底图 %d 不存在", id)
	}
	r := c.records[i]
	data, err := fs.ReadFile(r.fsys, r.Path())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "读取底图 %s 失败", r.Path())
	}
	return data, nil
}

// Merge 把 extra 中的条目接在当前目录之后，id 依次顺延到当前最大 id 之后。
// 额外条目仍从各自的文件系统读取。
func (c *Catalog) Merge(extra *Catalog) *Catalog {
	out := &Catalog{byID: make(map[int]int, c.Len()+extra.Len())}
	out.records = append(out.records, c.records...)
	next := 0
	if n := len(c.records); n > 0 {
		next = c.records[n-1].ID + 1
	}
	for _, r := range extra.records {
		r.ID = next
		next++
		out.records = append(out.records, r)
	}
	out.reindex()
	return out
}

// Key 返回底图的缓存键，包含 id 与路径，目录变化时自然失效。
func (e Entry) Key() string { return fmt.Sprintf("%d:%s", e.ID, e.Path()) }
