// Package cache 提供渲染流水线使用的两类缓存：
// 进程内的底图解码缓存（Images），以及按内容哈希落盘的文件缓存（FileCache，用于总览图）。
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"sync"
)

// Images 缓存解码后的底图。实现必须可并发使用。
// Put 采用先写者胜出：已有值时丢弃新值并返回已有值，因此并发渲染重复解码同一底图不影响结果。
type Images interface {
	Get(key string) (image.Image, bool)
	Put(key string, img image.Image) image.Image
}

// Memory 是无界、进程生命周期的底图缓存。底图目录很小且只读，因此不做淘汰。
type Memory struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewMemory creates an empty in-process image cache.
func NewMemory() *Memory {
	return &Memory{images: map[string]image.Image{}}
}

// Get returns the cached image for key.
func (m *Memory) Get(key string) (image.Image, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[key]
	return img, ok
}

// Put stores img unless key is already present, and returns the stored value.
func (m *Memory) Put(key string, img image.Image) image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.images[key]; ok {
		return existing
	}
	m.images[key] = img
	return img
}

// Len returns the number of cached images.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

// Null 从不保存任何内容，用于关闭缓存。
type Null struct{}

// Get always misses.
func (Null) Get(string) (image.Image, bool) { return nil, false }

// Put returns img unchanged.
func (Null) Put(_ string, img image.Image) image.Image { return img }

var (
	_ Images = (*Memory)(nil)
	_ Images = Null{}
)

// Hash computes a SHA-256 hash of the input data as a 64-character hex string.
func Hash(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
