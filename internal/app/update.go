// internal/app/update.go
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/vu/internal/clock"
	"github.com/llehouerou/vu/internal/errmsg"
	"github.com/llehouerou/vu/internal/keymap"
	"github.com/llehouerou/vu/internal/viewport"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case clock.Advance:
		return m.handleAdvance()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.Width = msg.Width
	m.Height = msg.Height
	return m.layout()
}

// layout sizes the surface to the cells left over by the status bar.
// The viewport is created on the first usable size.
func (m Model) layout() (tea.Model, tea.Cmd) {
	cols, rows := m.Width, m.Height-m.statusRows()
	if cols <= 0 || rows <= 0 {
		return m, nil
	}
	w, h := m.surface.SetCells(cols, rows)
	m.log.Debug("layout", "cols", cols, "rows", rows, "width", w, "height", h)

	if m.view != nil {
		if err := m.view.Resize(w, h, m.opts.RefitOnResize); err != nil {
			return m.fail(errmsg.OpResize, err)
		}
		return m, nil
	}

	if err := m.surface.Resize(w, h); err != nil {
		return m.fail(errmsg.OpResize, err)
	}
	m.view = viewport.New(m.src, m.surface, m.opts.Viewport)
	if !m.view.Draw() {
		return m.fail(errmsg.OpPresent, viewport.ErrPresent)
	}
	cmd := m.startPlayback()
	return m, cmd
}

func (m Model) handleAdvance() (tea.Model, tea.Cmd) {
	if m.view == nil {
		return m, m.waitForAdvance()
	}
	if !m.view.Advance() {
		return m.fail(errmsg.OpPresent, viewport.ErrPresent)
	}
	return m, m.waitForAdvance()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(msg.String())
	switch action {
	case keymap.ActionQuit:
		m.stopPlayback()
		return m, tea.Quit
	case keymap.ActionToggleStatusBar:
		m.ShowStatus = !m.ShowStatus
		return m.layout()
	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
		return m.layout()
	case "":
		return m, nil
	}

	if m.view == nil {
		return m, nil
	}

	var ok bool
	switch action {
	case keymap.ActionZoomIn:
		ok = m.view.ZoomIn()
	case keymap.ActionZoomOut:
		ok = m.view.ZoomOut()
	case keymap.ActionFit:
		ok = m.view.Fit()
	case keymap.ActionReset:
		ok = m.view.ResetView()
	case keymap.ActionPanUp:
		ok = m.view.PanUp()
	case keymap.ActionPanDown:
		ok = m.view.PanDown()
	case keymap.ActionPanLeft:
		ok = m.view.PanLeft()
	case keymap.ActionPanRight:
		ok = m.view.PanRight()
	default:
		return m, nil
	}
	if !ok {
		return m.fail(errmsg.OpPresent, viewport.ErrPresent)
	}
	m.log.Debug("view changed", "action", action, "zoom", m.view.Zoom(), "pan", m.view.Pan())
	return m, nil
}

// fail stops playback and quits, keeping the message for the caller to
// print once the terminal is restored.
func (m Model) fail(op errmsg.Op, err error) (tea.Model, tea.Cmd) {
	m.ErrorMsg = errmsg.Format(op, err)
	m.log.Error("viewer failed", "op", string(op), "err", err)
	m.stopPlayback()
	return m, tea.Quit
}
