// internal/app/app.go
package app

import (
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/vu/internal/clock"
	"github.com/llehouerou/vu/internal/frame"
	"github.com/llehouerou/vu/internal/keymap"
	"github.com/llehouerou/vu/internal/ui/surface"
	"github.com/llehouerou/vu/internal/viewport"
)

// advanceBuffer is the number of clock signals queued ahead of the UI.
const advanceBuffer = 4

// Options configures a Model.
type Options struct {
	Path          string
	Title         string // window title and status bar name, defaults to the file name
	FileSize      int64
	ShowStatus    bool
	RefitOnResize bool
	Viewport      viewport.Options
	MinFrameDelay time.Duration
	Bindings      []keymap.Binding // defaults to keymap.Bindings
	Logger        *slog.Logger
}

// Model is the root viewer model. The bubbletea goroutine is the only
// one touching the viewport; the animation clock reaches it through
// advance messages.
type Model struct {
	src     *frame.Source
	surface *surface.Surface
	view    *viewport.Viewport // nil until the first window size is known
	clock   *clock.Clock
	sink    *clock.ChanSink
	keys    *keymap.Resolver
	opts    Options
	log     *slog.Logger

	ShowStatus bool
	ShowHelp   bool // key bindings replace the status line
	ErrorMsg   string
	Width      int
	Height     int
}

// New creates a viewer model for src drawing into surf.
func New(src *frame.Source, surf *surface.Surface, opts Options) Model {
	if opts.Title == "" {
		opts.Title = filepath.Base(opts.Path)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	opts.Viewport.Logger = log
	if opts.Bindings == nil {
		opts.Bindings = keymap.Bindings
	}

	m := Model{
		src:        src,
		surface:    surf,
		keys:       keymap.NewResolver(opts.Bindings),
		opts:       opts,
		log:        log,
		ShowStatus: opts.ShowStatus,
	}
	if src.IsAnimated() {
		m.sink = clock.NewChanSink(advanceBuffer)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.opts.Title)
}

// Viewport returns the viewport, or nil before the first layout.
func (m Model) Viewport() *viewport.Viewport {
	return m.view
}

// Playing reports whether the animation clock is running.
func (m Model) Playing() bool {
	return m.clock != nil && m.clock.Running()
}

// Close stops the animation clock, waiting for its worker, and releases
// the surface. It returns the escape sequence that removes the image.
func (m Model) Close() string {
	m.stopPlayback()
	if m.clock != nil {
		m.clock.Stop()
	}
	return m.surface.Close()
}

// stopPlayback makes the clock worker exit at its next signal without
// blocking the caller.
func (m Model) stopPlayback() {
	if m.sink != nil {
		m.sink.Close()
	}
}

func (m *Model) startPlayback() tea.Cmd {
	if m.sink == nil || m.clock != nil {
		return nil
	}
	m.clock = clock.Start(m.src.Delays(), m.sink, clock.Options{
		MinDelay: m.opts.MinFrameDelay,
		Logger:   m.log,
	})
	m.log.Info("playback started", "frames", m.src.Len())
	return m.waitForAdvance()
}

// waitForAdvance returns a command delivering the next clock signal.
func (m Model) waitForAdvance() tea.Cmd {
	if m.sink == nil {
		return nil
	}
	ch, closed := m.sink.C(), m.sink.Closed()
	return func() tea.Msg {
		select {
		case <-closed:
			return nil
		default:
		}
		select {
		case a := <-ch:
			return a
		case <-closed:
			return nil
		}
	}
}
