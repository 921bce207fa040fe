package texture

import (
	"crypto/sha1"
	"encoding/hex"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"
	"golang.org/x/image/webp"
)

// Cache holds loaded textures in memory and, when dir is set, as lossless
// webp thumbnails on disk. It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	dir   string
	log   *zap.Logger
}

// NewCache returns a cache. An empty dir keeps it memory-only.
func NewCache(dir string, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		items: make(map[string]*image.NRGBA),
		dir:   dir,
		log:   log,
	}
}

// Key derives the cache key for a reference at a texture size. stamp
// versions the source (e.g. its modification time).
func (c *Cache) Key(ref string, size int, stamp string) string {
	sum := sha1.Sum([]byte(ref + "\x00" + strconv.Itoa(size) + "\x00" + stamp))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached texture for key.
func (c *Cache) Get(key string) (*image.NRGBA, bool) {
	// Fast path: read lock
	c.mu.RLock()
	img, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return img, true
	}

	img, ok = c.readDisk(key)
	if !ok {
		return nil, false
	}
	return c.store(key, img), true
}

// Put stores img under key and returns the cached texture, which is an
// earlier entry if another goroutine stored one first.
func (c *Cache) Put(key string, img *image.NRGBA) *image.NRGBA {
	stored := c.store(key, img)
	if stored == img {
		c.writeDisk(key, img)
	}
	return stored
}

// Len returns the number of textures held in memory.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) store(key string, img *image.NRGBA) *image.NRGBA {
	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing
	}
	c.items[key] = img
	return img
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".webp")
}

func (c *Cache) readDisk(key string) (*image.NRGBA, bool) {
	if c.dir == "" {
		return nil, false
	}
	p := c.path(key)
	f, err := os.Open(p)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		c.log.Warn("dropping corrupt thumbnail", zap.String("path", p), zap.Error(err))
		os.Remove(p)
		return nil, false
	}
	return toNRGBA(img), true
}

func (c *Cache) writeDisk(key string, img *image.NRGBA) {
	if c.dir == "" {
		return
	}
	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		c.log.Warn("thumbnail cache unavailable", zap.String("dir", c.dir), zap.Error(err))
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".thumb-*")
	if err != nil {
		c.log.Warn("writing thumbnail", zap.String("path", p), zap.Error(err))
		return
	}
	if err := nativewebp.Encode(tmp, img, nil); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		c.log.Warn("encoding thumbnail", zap.String("path", p), zap.Error(err))
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		c.log.Warn("writing thumbnail", zap.String("path", p), zap.Error(err))
	}
}
