package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/climg/internal/catalog"
	"github.com/olivier-w/climg/internal/config"
	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/interactions"
	"github.com/olivier-w/climg/internal/texture"
	"github.com/olivier-w/climg/internal/ui"
	"github.com/olivier-w/climg/internal/watch"
	"go.uber.org/zap"
)

// app carries what every command needs to turn a source argument into items
// and textures.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	loader     *texture.Loader
	store      *interactions.Store
	categories []string

	// opened receives the first source that opened successfully when
	// --watch is set.
	opened chan string
}

func newApp(cfg *config.Config, log *zap.Logger, categories []string, withStore bool) (*app, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []texture.Option{
		texture.WithMaxSize(cfg.Texture.MaxSize),
		texture.WithLogger(log.Named("texture")),
	}
	if !cfg.Texture.NoCache {
		opts = append(opts, texture.WithCache(texture.NewCache(cfg.Texture.CacheDir, log.Named("cache"))))
	}

	a := &app{
		cfg:        cfg,
		log:        log,
		loader:     texture.NewLoader(opts...),
		categories: categories,
	}

	if withStore && cfg.Store.Path != "" && cfg.Store.Path != "-" {
		store, err := interactions.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}
	return a, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) sourceOptions() []catalog.Option {
	return []catalog.Option{
		catalog.WithToken(a.cfg.Remote.Token),
		catalog.WithFolder(a.cfg.Remote.FolderID),
		catalog.WithPageSize(a.cfg.Remote.PageSize),
		catalog.WithLogger(a.log.Named("catalog")),
	}
}

// load resolves arg to items, applies the --category filter and settles
// every texture before returning.
func (a *app) load(ctx context.Context, arg string, progress func(done, total int)) ([]gallery.Item, []texture.Texture, error) {
	src, err := catalog.Open(arg, a.sourceOptions()...)
	if err != nil {
		return nil, nil, err
	}
	items, err := src.Items(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(a.categories) > 0 {
		items = catalog.FilterByCategory(items, a.categories)
		if len(items) == 0 {
			return nil, nil, fmt.Errorf("%w tagged %s", catalog.ErrEmptyCatalog, strings.Join(a.categories, ", "))
		}
	}

	refs := make([]string, len(items))
	for i, it := range items {
		refs[i] = it.Image
	}
	textures := a.loader.LoadAll(ctx, refs, a.cfg.Texture.Concurrency, progress)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	a.log.Info("source opened",
		zap.String("source", arg),
		zap.Int("items", len(items)),
		zap.Int("placeholders", countPlaceholders(textures)))
	return items, textures, nil
}

// openGallery builds the gallery model for arg.
func (a *app) openGallery(ctx context.Context, arg string, progress func(done, total int)) (ui.GalleryModel, error) {
	items, textures, err := a.load(ctx, arg, progress)
	if err != nil {
		return ui.GalleryModel{}, err
	}

	saveDir, err := os.Getwd()
	if err != nil {
		saveDir = ""
	}
	m, err := ui.NewGallery(items, textures, ui.Options{
		Config:       a.cfg.Gallery(),
		FPS:          a.cfg.Render.FPS,
		CornerRadius: a.cfg.Render.CornerRadius,
		Store:        a.store,
		SaveDir:      saveDir,
		Source:       arg,
		Logger:       a.log.Named("ui"),
	})
	if err != nil {
		return ui.GalleryModel{}, err
	}

	if a.opened != nil {
		select {
		case a.opened <- arg:
		default:
		}
	}
	return m, nil
}

// watchLoop waits for the opened source and, when it is a directory,
// reloads the gallery whenever its contents settle after a change.
func (a *app) watchLoop(ctx context.Context, p *tea.Program) error {
	var dir string
	select {
	case <-ctx.Done():
		return nil
	case dir = <-a.opened:
	}

	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		a.log.Info("not watching: source is not a directory", zap.String("source", dir))
		return nil
	}

	w, err := watch.New(dir, watch.WithLogger(a.log.Named("watch")))
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changed():
			items, textures, err := a.load(ctx, dir, nil)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.log.Warn("reload failed", zap.String("dir", dir), zap.Error(err))
				continue
			}
			p.Send(ui.ReloadMsg{Items: items, Textures: textures})
		}
	}
}
