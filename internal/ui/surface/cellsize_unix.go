//go:build unix

package surface

import (
	"os"

	"golang.org/x/sys/unix"
)

// getCellSize returns the terminal cell dimensions in pixels
// by querying TIOCGWINSZ. Falls back to defaults if unavailable.
func getCellSize() (cellW, cellH int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return defaultCellW, defaultCellH
	}
	return int(ws.Xpixel) / int(ws.Col), int(ws.Ypixel) / int(ws.Row)
}

// TerminalPixelSize returns the pixel dimensions of the whole terminal
// window, or ok=false if the terminal does not report them.
func TerminalPixelSize() (width, height int, ok bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, false
	}
	if ws.Xpixel != 0 && ws.Ypixel != 0 {
		return int(ws.Xpixel), int(ws.Ypixel), true
	}
	if ws.Col != 0 && ws.Row != 0 {
		return int(ws.Col) * defaultCellW, int(ws.Row) * defaultCellH, true
	}
	return 0, 0, false
}
