package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/climg/internal/config"
	"github.com/olivier-w/climg/internal/logging"
	"github.com/olivier-w/climg/internal/texture"
	"github.com/olivier-w/climg/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// cliOptions holds flag values plus the config and logger built from them
// before any command runs.
type cliOptions struct {
	configPath string
	verbose    bool
	logFile    string
	categories []string
	cols       int
	fps        int
	watch      bool
	token      string
	db         string
	noCache    bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &cliOptions{}

	root := &cobra.Command{
		Use:   "climg [dir|list|manifest|url]",
		Short: "Drag through an image gallery in the terminal",
		Long: `climg lays images out on an endless grid you can drag, fling and scroll.

The source may be a directory, a playlist-style list file, a YAML manifest,
a single image, or an assets endpoint URL. With no source a picker lists the
candidates in the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.log != nil {
				_ = o.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(cmd.Context(), o, args)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", config.DefaultPath(), "config file")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
	f.StringVar(&o.logFile, "log-file", "", `log file ("-" disables logging)`)
	f.StringArrayVar(&o.categories, "category", nil, "only show items tagged with this category (repeatable)")
	f.IntVar(&o.cols, "cols", 0, "visible grid columns")
	f.IntVar(&o.fps, "fps", 0, "frame rate cap")
	f.BoolVar(&o.watch, "watch", false, "reload when the source directory changes")
	f.StringVar(&o.token, "token", "", "bearer token for an assets endpoint (or CLIMG_TOKEN)")
	f.StringVar(&o.db, "db", "", `likes/bookmarks database ("-" disables)`)
	f.BoolVar(&o.noCache, "no-cache", false, "skip the on-disk thumbnail cache")

	root.AddCommand(newThumbsCmd(o), newConfigCmd(o))
	return root
}

// setup loads the config, applies flag overrides and builds the logger.
func (o *cliOptions) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("config") {
		if _, err := os.Stat(o.configPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if flags.Changed("cols") {
		cfg.Grid.Cols = o.cols
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = o.fps
	}
	if flags.Changed("token") {
		cfg.Remote.Token = o.token
	}
	if flags.Changed("db") {
		cfg.Store.Path = o.db
	}
	if flags.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
	if o.noCache {
		cfg.Texture.NoCache = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.File, cfg.Log.Level, o.verbose)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.log = log.With(zap.String("cmd", cmd.Name()))
	return nil
}

func runGallery(ctx context.Context, o *cliOptions, args []string) error {
	a, err := newApp(o.cfg, o.log, o.categories, true)
	if err != nil {
		return err
	}
	defer a.Close()

	arg := ""
	switch {
	case len(args) > 0:
		arg = args[0]
	case o.cfg.Remote.BaseURL != "":
		arg = o.cfg.Remote.BaseURL
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if o.watch {
		a.opened = make(chan string, 1)
	}

	p := tea.NewProgram(newStartupModel(ctx, a, arg),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	g, gctx := errgroup.WithContext(ctx)
	if o.watch {
		g.Go(func() error { return a.watchLoop(gctx, p) })
	}

	final, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil {
		o.log.Warn("watcher stopped", zap.Error(err))
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	if sm, ok := final.(startupModel); ok && sm.err != nil {
		return sm.err
	}
	return nil
}

func newThumbsCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "thumbs <source>",
		Short: "Pre-warm the thumbnail cache for a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.cfg.Texture.NoCache {
				return errors.New("thumbs: the thumbnail cache is disabled")
			}
			a, err := newApp(o.cfg, o.log, o.categories, false)
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			var mu sync.Mutex
			next := 0
			items, textures, err := a.load(cmd.Context(), args[0], func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				if pct := done * 100 / total; pct >= next {
					next = pct/10*10 + 10
					o.log.Info("warming thumbnails", zap.Int("done", done), zap.Int("total", total))
				}
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s cached in %s (%d failed) under %s\n",
				util.Plural(len(items), "thumbnail"),
				time.Since(start).Round(time.Millisecond),
				countPlaceholders(textures),
				o.cfg.Texture.CacheDir)
			return nil
		},
	}
}

func newConfigCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := o.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// countPlaceholders reports how many textures fell back to the placeholder.
func countPlaceholders(ts []texture.Texture) int {
	n := 0
	for _, t := range ts {
		if t.Placeholder {
			n++
		}
	}
	return n
}
