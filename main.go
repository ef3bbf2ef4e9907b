// The vu command displays an image or animation in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/vu/internal/app"
	"github.com/llehouerou/vu/internal/config"
	"github.com/llehouerou/vu/internal/decode"
	"github.com/llehouerou/vu/internal/errmsg"
	"github.com/llehouerou/vu/internal/keymap"
	"github.com/llehouerou/vu/internal/logging"
	"github.com/llehouerou/vu/internal/ui/surface"
	"github.com/llehouerou/vu/internal/viewport"
)

func main() {
	title := flag.String("title", "", "window title (default: file name)")
	noStatus := flag.Bool("no-status", false, "hide the status bar")
	logLevel := flag.String("log", logging.LevelFromEnv().String(), "logging level (debug, info, warn or error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpConfigLoad, err))
		os.Exit(1)
	}

	log, closer, err := logging.Open(cfg.LogFile, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpLogOpen, err))
		log, closer = logging.Discard(), io.NopCloser(nil)
	}

	code := run(cfg, log, path, *title, !*noStatus && cfg.GetStatusBar())
	_ = closer.Close()
	os.Exit(code)
}

func run(cfg *config.Config, log *slog.Logger, path, title string, showStatus bool) int {
	bindings, err := keymap.Apply(keymap.Bindings, cfg.Keys)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpConfigLoad, err))
		return 1
	}

	proto, err := surface.Detect(cfg.Protocol)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpDetect, err))
		return 1
	}

	// Stills are pre-fitted to the terminal so the first view shows the
	// whole image.
	var maxW, maxH int
	if w, h, ok := surface.TerminalPixelSize(); ok {
		margin := cfg.GetMargin()
		maxW, maxH = max(w-2*margin, 1), max(h-2*margin, 1)
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpImageOpen, err))
		return 1
	}
	src, err := decode.Decode(path, maxW, maxH)
	if err != nil {
		log.Error("decode failed", "path", path, "err", err)
		var derr *decode.Error
		if errors.As(err, &derr) {
			err = derr.Err
		}
		fmt.Fprintln(os.Stderr, errmsg.FormatWith(errmsg.OpImageOpen, path, err))
		return 1
	}
	w, h := src.Size()
	log.Info("image loaded", "path", path, "width", w, "height", h, "frames", src.Len(), "protocol", fmt.Sprintf("%T", proto))

	m := app.New(src, surface.New(proto), app.Options{
		Path:          path,
		Title:         title,
		FileSize:      info.Size(),
		ShowStatus:    showStatus,
		RefitOnResize: cfg.GetRefitOnResize(),
		Viewport: viewport.Options{
			ZoomStep:   cfg.GetZoomStep(),
			MinZoom:    cfg.GetMinZoom(),
			PanStep:    cfg.GetPanStep(),
			Background: cfg.GetBackground(),
		},
		MinFrameDelay: cfg.GetMinFrameDelay(),
		Bindings:      bindings,
		Logger:        log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, runErr := p.Run()

	fm, ok := final.(app.Model)
	if !ok {
		// Run failed before the first update.
		fm = m
	}
	fmt.Fprint(os.Stdout, fm.Close())

	if runErr != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpRun, runErr))
		return 1
	}
	if fm.ErrorMsg != "" {
		fmt.Fprintln(os.Stderr, fm.ErrorMsg)
		return 1
	}
	return 0
}
