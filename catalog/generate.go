package catalog

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/ByLCY/sticker/errors"
)

// DefaultColor 与 DefaultStyleID 用于扫描生成的条目。
const (
	DefaultColor   = "#ffffff"
	DefaultStyleID = 1
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// Generate 递归扫描 root 下的图片文件，按路径排序后依次编号。
// FileDir 为相对 root 的目录，因此生成的目录应配合 fs.Sub(fsys, root) 使用。
func Generate(fsys fs.FS, root string) ([]Entry, error) {
	root = path.Clean(root)
	var files []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if imageExts[strings.ToLower(path.Ext(p))] {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "扫描图片目录 %s 失败", root)
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for i, p := range files {
		rel := p
		if root != "." {
			rel = strings.TrimPrefix(p, root+"/")
		}
		dir := path.Dir(rel)
		if dir == "." {
			dir = ""
		}
		entries = append(entries, Entry{
			ID:       i,
			Color:    DefaultColor,
			FileName: path.Base(rel),
			FileDir:  dir,
			StyleID:  DefaultStyleID,
		})
	}
	return entries, nil
}

// FromDir 扫描 fsys 根目录生成目录，用于直接放入图片、没有 JSON 目录的额外底图文件夹。
func FromDir(fsys fs.FS) (*Catalog, error) {
	entries, err := Generate(fsys, ".")
	if err != nil {
		return nil, err
	}
	return New(fsys, entries)
}
