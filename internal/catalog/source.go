package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/texture"
)

var (
	// ErrEmptyCatalog is returned when a source yields no items.
	ErrEmptyCatalog = errors.New("catalog: no items")
	// ErrUnknownSource is returned by Open for arguments it cannot classify.
	ErrUnknownSource = errors.New("catalog: unrecognized source")
)

// Source produces the items of a gallery.
type Source interface {
	Items(ctx context.Context) ([]gallery.Item, error)
}

type options struct {
	token  string
	folder string
	limit  int
	client *http.Client
	log    *zap.Logger
}

// Option configures sources built by Open.
type Option func(*options)

// WithToken sets the bearer token sent to a remote assets endpoint.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithFolder restricts a remote source to one folder.
func WithFolder(id string) Option {
	return func(o *options) { o.folder = id }
}

// WithPageSize sets the remote page size (1..100).
func WithPageSize(n int) Option {
	return func(o *options) { o.limit = n }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		limit:  defaultPageSize,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open picks a source from the shape of arg: an http(s) URL of an image is a
// single item, any other URL is a remote assets endpoint, a directory is
// scanned, .yaml/.yml is a manifest, .txt/.lst/.m3u/.m3u8/.pls is a list, and
// a supported media file is a single item.
func Open(arg string, opts ...Option) (Source, error) {
	o := buildOptions(opts)

	if strings.Contains(arg, "://") {
		u, err := NormalizeURL(arg)
		if err != nil {
			return nil, err
		}
		if texture.IsSupportedExt(urlExt(u)) {
			return Static{itemFromRef(u)}, nil
		}
		return NewRemoteSource(u, opts...), nil
	}

	fi, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if fi.IsDir() {
		return &DirSource{Dir: arg, log: o.log}, nil
	}

	ext := strings.ToLower(filepath.Ext(arg))
	switch {
	case ext == ".yaml" || ext == ".yml":
		return &ManifestSource{Path: arg}, nil
	case IsListExt(ext):
		return &ListSource{Path: arg, log: o.log}, nil
	case texture.IsSupportedExt(ext):
		abs, err := filepath.Abs(arg)
		if err != nil {
			abs = arg
		}
		return Static{itemFromRef(abs)}, nil
	}
	return nil, fmt.Errorf("%s: %w (supported: %s)", arg, ErrUnknownSource, texture.SupportedExtsList())
}

// Static is a fixed item list.
type Static []gallery.Item

func (s Static) Items(context.Context) ([]gallery.Item, error) {
	if len(s) == 0 {
		return nil, ErrEmptyCatalog
	}
	return append([]gallery.Item(nil), s...), nil
}

// ItemID derives a stable ID from an image reference.
func ItemID(ref string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(ref)).String()
}

// itemFromRef builds an item for a path or URL, titled after its base name.
func itemFromRef(ref string) gallery.Item {
	return gallery.Item{
		ID:    ItemID(ref),
		Title: titleFromRef(ref),
		Image: ref,
	}
}

func titleFromRef(ref string) string {
	base := filepath.Base(ref)
	if IsURL(ref) {
		base = urlBase(ref)
	}
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" {
		return base
	}
	return title
}
