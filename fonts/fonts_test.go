package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"

	"github.com/ByLCY/sticker/errors"
)

func TestLoadBuiltin(t *testing.T) {
	data, err := Load("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if !bytes.Equal(data, gobold.TTF) {
		t.Fatalf("default font should be gobold")
	}
	for _, name := range Builtin() {
		if _, err := Load("embed:" + name); err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
	}
	if _, err := Load("embed:comic-sans"); !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("expected ASSET_LOAD for unknown builtin font, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, []byte("ttf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := Load(path)
	if err != nil || string(data) != "ttf" {
		t.Fatalf("unexpected load result %q (%v)", data, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ttf")); !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("expected ASSET_LOAD for missing file, got %v", err)
	}
}

func TestSystemFonts(t *testing.T) {
	name, ok := System("system: Noto Sans CJK SC")
	if !ok || name != "Noto Sans CJK SC" {
		t.Fatalf("unexpected system font name %q (%v)", name, ok)
	}
	if _, ok := System(Default); ok {
		t.Fatalf("builtin fonts are not system fonts")
	}
	if _, err := Load("system:Noto Sans CJK SC"); !errors.Is(err, errors.ErrCodeAssetLoad) {
		t.Fatalf("system fonts cannot be loaded as bytes, got %v", err)
	}
}
