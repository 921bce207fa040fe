package texture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned for references with an unknown extension.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
	// ErrNoCoverArt is returned for audio files without embedded artwork.
	ErrNoCoverArt = errors.New("texture: no cover art")
)

// DefaultMaxSize bounds the longer side of a loaded texture.
const DefaultMaxSize = 1024

// maxDownload caps remote image bodies.
const maxDownload = 64 << 20

// Loader decodes item images into downscaled NRGBA textures.
type Loader struct {
	maxSize int
	client  *http.Client
	cache   *Cache
	log     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxSize bounds the longer texture side. Zero keeps full size.
func WithMaxSize(n int) Option {
	return func(l *Loader) { l.maxSize = n }
}

func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithCache enables the memory and disk thumbnail cache.
func WithCache(c *Cache) Option {
	return func(l *Loader) { l.cache = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader returns a loader with DefaultMaxSize and no cache.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		maxSize: DefaultMaxSize,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxSize returns the longer-side bound applied to textures.
func (l *Loader) MaxSize() int {
	return l.maxSize
}

// Load returns the texture for ref, a local path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if l.cache != nil {
		key = l.cache.Key(ref, l.maxSize, l.stamp(ref))
		if img, ok := l.cache.Get(key); ok {
			return img, nil
		}
	}

	src, err := l.decode(ctx, ref)
	if err != nil {
		return nil, err
	}
	img := Fit(src, l.maxSize)

	if l.cache != nil {
		img = l.cache.Put(key, img)
	}
	return img, nil
}

// stamp versions local files by size and modification time so edits
// invalidate the disk cache.
func (l *Loader) stamp(ref string) string {
	if isURL(ref) {
		return ""
	}
	fi, err := os.Stat(ref)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(fi.Size(), 10) + "-" + strconv.FormatInt(fi.ModTime().UnixNano(), 10)
}

func (l *Loader) decode(ctx context.Context, ref string) (image.Image, error) {
	if isURL(ref) {
		return l.fetch(ctx, ref)
	}

	ext := filepath.Ext(ref)
	switch {
	case IsCoverExt(ext):
		data, err := coverArt(ref, ext)
		if err != nil {
			return nil, fmt.Errorf("texture: %s: %w", ref, err)
		}
		return decodeBytes(ref, "", data)
	case IsImageExt(ext):
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		return decodeBytes(ref, ext, data)
	default:
		return nil, fmt.Errorf("texture: %s: %w", ref, ErrUnsupportedFormat)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("texture: fetch %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}

	// Audio URLs still carry their cover art; everything else is sniffed.
	ext := path.Ext(req.URL.Path)
	if IsCoverExt(ext) {
		return decodeRemoteCover(url, ext, data)
	}
	return decodeBytes(url, ext, data)
}

// decodeRemoteCover spools an audio body to disk since the tag readers want
// a file.
func decodeRemoteCover(url, ext string, data []byte) (image.Image, error) {
	f, err := os.CreateTemp("", "climg-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("texture: %w", err)
	}
	f.Close()

	art, err := coverArt(f.Name(), ext)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", url, err)
	}
	return decodeBytes(url, "", art)
}

type decodeFunc func(io.Reader) (image.Image, error)

// extDecoders maps lower-case image extensions to their decoder. TGA has no
// magic bytes, so it is never routed through image.Decode.
var extDecoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".webp": webp.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".tga":  tga.Decode,
}

// sniffDecoder picks a decoder from the leading bytes of data.
func sniffDecoder(data []byte) decodeFunc {
	switch http.DetectContentType(data) {
	case "image/png":
		return png.Decode
	case "image/jpeg":
		return jpeg.Decode
	case "image/gif":
		return gif.Decode
	case "image/webp":
		return webp.Decode
	case "image/bmp":
		return bmp.Decode
	}
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return tiff.Decode
	}
	return nil
}

// decodeBytes decodes data by its content first, then by ext. Bytes nothing
// recognises are tried as TGA before giving up.
func decodeBytes(ref, ext string, data []byte) (image.Image, error) {
	dec := sniffDecoder(data)
	if dec == nil {
		dec = extDecoders[strings.ToLower(ext)]
	}
	if dec == nil {
		img, err := tga.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("texture: %s: %w", ref, ErrUnsupportedFormat)
		}
		return img, nil
	}

	img, err := dec(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", ref, err)
	}
	return img, nil
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Fit downscales src so its longer side is at most maxSize, keeping the
// aspect ratio. Smaller images are only converted to NRGBA.
func Fit(src image.Image, maxSize int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return toNRGBA(src)
	}

	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// PlaceholderColor is the neutral fill used for textures that failed to load.
var PlaceholderColor = color.NRGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}

// Placeholder returns a size x size neutral grey texture.
func Placeholder(size int) *image.NRGBA {
	if size <= 0 {
		size = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(PlaceholderColor), image.Point{}, draw.Src)
	return img
}
