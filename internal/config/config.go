package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const appName = "vu"

type Config struct {
	ZoomStep      float64 `koanf:"zoom_step"`       // zoom change per key press (default: 0.1)
	MinZoom       float64 `koanf:"min_zoom"`        // smallest zoom reachable by zooming out (default: 1.0)
	PanStep       float64 `koanf:"pan_step"`        // fraction of the image moved per pan (default: 0.1)
	Background    string  `koanf:"background"`      // "#rrggbb", "#rgb" or "none" (default: "none")
	RefitOnResize *bool   `koanf:"refit_on_resize"` // re-fit the image when the terminal resizes (default: true)
	StatusBar     *bool   `koanf:"status_bar"`      // show the status bar (default: true)

	// Terminal presentation
	Protocol        string `koanf:"protocol"`           // "auto", "kitty", "sixel", or "none"
	Margin          int    `koanf:"margin"`             // pixels subtracted from each side before pre-fitting stills
	MinFrameDelayMS int    `koanf:"min_frame_delay_ms"` // floor for animation frame delays, negative disables (default: 10)

	LogFile string `koanf:"log_file"` // default: $XDG_STATE_HOME/vu/vu.log

	// Key binding overrides, action name -> keys, e.g. zoom_in = ["+", "i"]
	Keys map[string][]string `koanf:"keys"`
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order, later files overriding
// earlier ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Protocol = strings.ToLower(strings.TrimSpace(cfg.Protocol))
	switch cfg.Protocol {
	case "", "auto", "kitty", "sixel", "none":
	default:
		return nil, fmt.Errorf("invalid protocol %q", cfg.Protocol)
	}

	if _, err := parseColor(cfg.Background); err != nil {
		return nil, err
	}

	if cfg.LogFile != "" {
		cfg.LogFile = expandPath(cfg.LogFile)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/vu/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetZoomStep returns the zoom step, defaulting to 0.1.
func (c *Config) GetZoomStep() float64 {
	if c.ZoomStep <= 0 || c.ZoomStep > 10 {
		return 0.1
	}
	return c.ZoomStep
}

// GetMinZoom returns the zoom-out floor, defaulting to 1.0 (native size).
func (c *Config) GetMinZoom() float64 {
	if c.MinZoom <= 0 {
		return 1.0
	}
	return max(c.MinZoom, 0.01)
}

// GetPanStep returns the pan step as a fraction of the image size,
// defaulting to 0.1.
func (c *Config) GetPanStep() float64 {
	if c.PanStep <= 0 || c.PanStep > 1 {
		return 0.1
	}
	return c.PanStep
}

// GetBackground returns the window background colour. Transparent unless
// configured.
func (c *Config) GetBackground() color.NRGBA {
	bg, err := parseColor(c.Background)
	if err != nil {
		return color.NRGBA{}
	}
	return bg
}

// GetRefitOnResize reports whether a resize re-fits the image (default: true).
func (c *Config) GetRefitOnResize() bool {
	return c.RefitOnResize == nil || *c.RefitOnResize
}

// GetStatusBar reports whether the status bar is shown (default: true).
func (c *Config) GetStatusBar() bool {
	return c.StatusBar == nil || *c.StatusBar
}

// GetMargin returns the pre-fit margin in pixels, never negative.
func (c *Config) GetMargin() int {
	return max(c.Margin, 0)
}

// GetMinFrameDelay returns the animation delay floor. Zero means the
// player default, a negative value disables the floor.
func (c *Config) GetMinFrameDelay() time.Duration {
	if c.MinFrameDelayMS < 0 {
		return -1
	}
	return time.Duration(c.MinFrameDelayMS) * time.Millisecond
}

func parseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
