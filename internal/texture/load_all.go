package texture

import (
	"context"
	"image"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// placeholderSize is small since the compositor stretches it anyway.
const placeholderSize = 8

// Texture is the settled result of loading one reference.
type Texture struct {
	Ref         string
	Image       *image.NRGBA
	Placeholder bool
	Err         error
}

// LoadAll loads refs with at most concurrency loads in flight and returns one
// Texture per ref, in order. Failures become placeholders and are logged;
// LoadAll itself never fails. progress, when set, may be called from several
// goroutines.
func (l *Loader) LoadAll(ctx context.Context, refs []string, concurrency int, progress func(done, total int)) []Texture {
	out := make([]Texture, len(refs))
	if concurrency <= 0 {
		concurrency = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var done atomic.Int64
	for i, ref := range refs {
		g.Go(func() error {
			img, err := l.Load(gctx, ref)
			if err != nil {
				l.log.Warn("texture load failed", zap.String("path", ref), zap.Error(err))
				out[i] = Texture{Ref: ref, Image: Placeholder(placeholderSize), Placeholder: true, Err: err}
			} else {
				out[i] = Texture{Ref: ref, Image: img}
			}
			if progress != nil {
				progress(int(done.Add(1)), len(refs))
			}
			return nil
		})
	}
	_ = g.Wait()

	l.log.Debug("textures settled",
		zap.Int("total", len(refs)),
		zap.Int("failed", countPlaceholders(out)))
	return out
}

func countPlaceholders(ts []Texture) int {
	n := 0
	for _, t := range ts {
		if t.Placeholder {
			n++
		}
	}
	return n
}
