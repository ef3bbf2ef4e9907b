// internal/app/view.go
package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/vu/internal/frame"
	"github.com/llehouerou/vu/internal/keymap"
	"github.com/llehouerou/vu/internal/ui/styles"
)

const statusBarHeight = 1

func (m Model) statusRows() int {
	if m.ShowStatus || m.ShowHelp {
		return statusBarHeight
	}
	return 0
}

// View renders the image area followed by the status bar.
//
// The image area is blank full-width lines. The image escape goes at the
// end of the last one, so the terminal draws the image after every line
// it covers has been written.
func (m Model) View() string {
	if m.view == nil || m.Width <= 0 {
		return ""
	}
	rows := m.Height - m.statusRows()
	if rows <= 0 {
		return m.renderStatusBar()
	}

	blank := strings.Repeat(" ", m.Width)
	lines := make([]string, rows, rows+1)
	for i := range lines {
		lines[i] = blank
	}
	lines[rows-1] += m.surface.View()

	if m.statusRows() > 0 {
		lines = append(lines, m.renderStatusBar())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	if m.ShowHelp {
		return m.renderHelp()
	}
	s := styles.T().S()
	sep := s.Muted.Render("  ")

	parts := []string{s.Title.Render(m.opts.Title)}

	iw, ih := m.src.Size()
	parts = append(parts, s.Base.Render(fmt.Sprintf("%dx%d", iw, ih)))
	parts = append(parts, s.Base.Render(fmt.Sprintf("%d%%", int(math.Round(m.view.Zoom()*100)))))

	if m.src.IsAnimated() {
		idx, n := m.view.FrameIndex()
		parts = append(parts, s.Muted.Render(fmt.Sprintf("frame %d/%d", idx+1, n)))
	}

	if m.opts.FileSize > 0 {
		parts = append(parts, s.Muted.Render(humanize.IBytes(uint64(m.opts.FileSize)))) //nolint:gosec // checked positive above
	}
	parts = append(parts, s.Muted.Render(humanize.IBytes(decodedBytes(m.src))+" decoded"))

	if m.ErrorMsg != "" {
		parts = append(parts, s.Error.Render(m.ErrorMsg))
	}

	line := ansi.Truncate(strings.Join(parts, sep), m.Width, "…")
	return s.Bar.Width(m.Width).Render(line)
}

// renderHelp lists the active key bindings, grouped by context.
func (m Model) renderHelp() string {
	s := styles.T().S()
	var parts []string
	for _, ctx := range keymap.Contexts {
		for _, b := range keymap.Filter(m.opts.Bindings, ctx) {
			if len(b.Keys) == 0 {
				continue
			}
			parts = append(parts, s.Title.Render(strings.Join(b.Keys, "/"))+s.Base.Render(" "+b.Description))
		}
	}
	line := ansi.Truncate(strings.Join(parts, s.Muted.Render("  ")), m.Width, "…")
	return s.Bar.Width(m.Width).Render(line)
}

func decodedBytes(src *frame.Source) uint64 {
	w, h := src.Size()
	return uint64(src.Len()) * uint64(w) * uint64(h) * frame.Channels //nolint:gosec // sizes are non-negative
}
