package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/olivier-w/climg/internal/gallery"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the on-disk configuration. Zero sections fall back to defaults.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Interaction InteractionConfig `yaml:"interaction"`
	Distortion  DistortionConfig  `yaml:"distortion"`
	Hover       HoverConfig       `yaml:"hover"`
	Texture     TextureConfig     `yaml:"texture"`
	Render      RenderConfig      `yaml:"render"`
	Remote      RemoteConfig      `yaml:"remote"`
	Store       StoreConfig       `yaml:"store"`
	Log         LogConfig         `yaml:"log"`
}

type GridConfig struct {
	Cols      int     `yaml:"cols"`
	Rows      int     `yaml:"rows"`
	TotalCols int     `yaml:"total_cols"`
	TotalRows int     `yaml:"total_rows"`
	GapRatio  float64 `yaml:"gap_ratio"`
}

type InteractionConfig struct {
	DragThreshold   float64       `yaml:"drag_threshold"`
	DragSensitivity float64       `yaml:"drag_sensitivity"`
	SwipeRatio      float64       `yaml:"swipe_ratio"`
	Friction        float64       `yaml:"friction"`
	Lerp            float64       `yaml:"lerp"`
	CellLerp        float64       `yaml:"cell_lerp"`
	WheelSpeed      float64       `yaml:"wheel_speed"`
	WheelTimeout    time.Duration `yaml:"wheel_timeout"`
}

type DistortionConfig struct {
	Max             float64 `yaml:"max"`
	Factor          float64 `yaml:"factor"`
	DragFactor      float64 `yaml:"drag_factor"`
	WheelFactor     float64 `yaml:"wheel_factor"`
	Lerp            float64 `yaml:"lerp"`
	VelocityEpsilon float64 `yaml:"velocity_epsilon"`
}

type HoverConfig struct {
	Throttle time.Duration `yaml:"throttle"`
	Opacity  float64       `yaml:"opacity"`
	Scale    float64       `yaml:"scale"`
}

type TextureConfig struct {
	MaxSize     int    `yaml:"max_size"`
	Concurrency int    `yaml:"concurrency"`
	CacheDir    string `yaml:"cache_dir"`
	NoCache     bool   `yaml:"no_cache"`
}

type RenderConfig struct {
	FPS          int     `yaml:"fps"`
	CornerRadius float64 `yaml:"corner_radius"`
}

// RemoteConfig points at an assets endpoint. Token is usually supplied
// through CLIMG_TOKEN rather than the file.
type RemoteConfig struct {
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"`
	FolderID string `yaml:"folder_id"`
	PageSize int    `yaml:"page_size"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the stock configuration.
func Default() *Config {
	g := gallery.DefaultConfig()
	return &Config{
		Grid: GridConfig{
			Cols:      g.Grid.Cols,
			Rows:      g.Grid.Rows,
			TotalCols: g.Grid.TotalCols,
			TotalRows: g.Grid.TotalRows,
			GapRatio:  g.Grid.GapRatio,
		},
		Interaction: InteractionConfig{
			DragThreshold:   g.DragThreshold,
			DragSensitivity: g.DragSensitivity,
			SwipeRatio:      g.SwipeRatio,
			Friction:        g.Friction,
			Lerp:            g.Lerp,
			CellLerp:        g.CellLerp,
			WheelSpeed:      g.WheelSpeed,
			WheelTimeout:    g.WheelTimeout,
		},
		Distortion: DistortionConfig{
			Max:             g.MaxDistortion,
			Factor:          g.DistortionFactor,
			DragFactor:      g.DragDistortionFactor,
			WheelFactor:     g.WheelDistortionFactor,
			Lerp:            g.DistortionLerp,
			VelocityEpsilon: g.VelocityEpsilon,
		},
		Hover: HoverConfig{
			Throttle: g.HoverThrottle,
			Opacity:  g.HighlightOpacity,
			Scale:    g.HighlightScale,
		},
		Texture: TextureConfig{
			MaxSize:     256,
			Concurrency: 8,
			CacheDir:    defaultCacheDir(),
		},
		Render: RenderConfig{
			FPS:          60,
			CornerRadius: 0.05,
		},
		Remote: RemoteConfig{
			PageSize: 50,
		},
		Store: StoreConfig{
			Path: filepath.Join(stateDir(), "climg.db"),
		},
		Log: LogConfig{
			File:  filepath.Join(stateDir(), "climg.log"),
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CLIMG_TOKEN"); v != "" {
		c.Remote.Token = v
	}
	if v := os.Getenv("CLIMG_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// Gallery converts the tuning sections into the engine's config.
func (c *Config) Gallery() gallery.Config {
	return gallery.Config{
		Grid: gallery.GridConfig{
			Cols:      c.Grid.Cols,
			Rows:      c.Grid.Rows,
			TotalCols: c.Grid.TotalCols,
			TotalRows: c.Grid.TotalRows,
			GapRatio:  c.Grid.GapRatio,
		},
		DragThreshold:   c.Interaction.DragThreshold,
		DragSensitivity: c.Interaction.DragSensitivity,
		SwipeRatio:      c.Interaction.SwipeRatio,
		Friction:        c.Interaction.Friction,
		Lerp:            c.Interaction.Lerp,
		CellLerp:        c.Interaction.CellLerp,
		DistortionLerp:  c.Distortion.Lerp,
		VelocityEpsilon: c.Distortion.VelocityEpsilon,

		HoverThrottle: c.Hover.Throttle,
		WheelSpeed:    c.Interaction.WheelSpeed,
		WheelTimeout:  c.Interaction.WheelTimeout,

		MaxDistortion:         c.Distortion.Max,
		DistortionFactor:      c.Distortion.Factor,
		DragDistortionFactor:  c.Distortion.DragFactor,
		WheelDistortionFactor: c.Distortion.WheelFactor,

		HighlightOpacity: c.Hover.Opacity,
		HighlightScale:   c.Hover.Scale,
	}
}

// FrameInterval is the time between frames at the configured rate.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Gallery().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch {
	case c.Texture.MaxSize <= 0:
		return fmt.Errorf("%w: texture.max_size %d", ErrInvalid, c.Texture.MaxSize)
	case c.Texture.Concurrency <= 0:
		return fmt.Errorf("%w: texture.concurrency %d", ErrInvalid, c.Texture.Concurrency)
	case c.Render.FPS < 1 || c.Render.FPS > 240:
		return fmt.Errorf("%w: render.fps %d outside [1,240]", ErrInvalid, c.Render.FPS)
	case c.Render.CornerRadius < 0 || c.Render.CornerRadius > 0.5:
		return fmt.Errorf("%w: render.corner_radius %v outside [0,0.5]", ErrInvalid, c.Render.CornerRadius)
	case c.Remote.PageSize < 1 || c.Remote.PageSize > 100:
		return fmt.Errorf("%w: remote.page_size %d outside [1,100]", ErrInvalid, c.Remote.PageSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/climg/config.yaml or the OS equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "climg", "config.yaml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "climg", "thumbs")
	}
	return filepath.Join(dir, "climg", "thumbs")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "climg")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "climg")
	}
	return filepath.Join(os.TempDir(), "climg")
}
