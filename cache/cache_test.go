package cache

import (
	"image"
	"sync"
	"testing"
)

func TestMemoryFirstWriterWins(t *testing.T) {
	m := NewMemory()
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))

	if _, ok := m.Get("k"); ok {
		t.Fatalf("empty cache should miss")
	}
	if got := m.Put("k", a); got != a {
		t.Fatalf("first put should store its value")
	}
	if got := m.Put("k", b); got != a {
		t.Fatalf("second put should return the first value")
	}
	got, ok := m.Get("k")
	if !ok || got != a {
		t.Fatalf("expected cached first value")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
}

func TestMemoryConcurrentPut(t *testing.T) {
	m := NewMemory()
	const n = 32
	results := make([]image.Image, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Put("shared", image.NewRGBA(image.Rect(0, 0, i+1, 1)))
		}(i)
	}
	wg.Wait()
	winner, _ := m.Get("shared")
	for i, img := range results {
		if img != winner {
			t.Fatalf("goroutine %d saw a different winner", i)
		}
	}
}

func TestNullCache(t *testing.T) {
	var c Images = Null{}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if got := c.Put("k", img); got != img {
		t.Fatalf("null put should echo the value")
	}
	if _, ok := c.Get("k"); ok {
		t.Fatalf("null cache should never hit")
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new file cache: %v", err)
	}
	if _, hit, err := c.Get("sheet"); hit || err != nil {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := c.Set("sheet", []byte("png")); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, hit, err := c.Get("sheet")
	if !hit || err != nil || string(data) != "png" {
		t.Fatalf("unexpected get %q hit=%v err=%v", data, hit, err)
	}
	if err := c.Delete("sheet"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := c.Delete("sheet"); err != nil {
		t.Fatalf("deleting twice should be fine: %v", err)
	}
	if _, hit, _ := c.Get("sheet"); hit {
		t.Fatalf("expected miss after delete")
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("a"), []byte("bc")) == Hash([]byte("ab"), []byte("c")) {
		t.Fatalf("part boundaries should affect the hash")
	}
	if len(Hash([]byte("x"))) != 64 {
		t.Fatalf("expected 64 hex chars")
	}
}
