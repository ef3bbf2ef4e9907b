package app

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/vu/internal/clock"
	"github.com/llehouerou/vu/internal/frame"
	"github.com/llehouerou/vu/internal/ui/surface"
)

type fakeProtocol struct {
	encodes int
	cols    int
	rows    int
	err     error
}

func (p *fakeProtocol) Encode(img *image.NRGBA, cols, rows int) (string, error) {
	p.encodes++
	p.cols, p.rows = cols, rows
	if p.err != nil {
		return "", p.err
	}
	return "<img>", nil
}

func (p *fakeProtocol) Clear() string { return "<clear>" }

func (p *fakeProtocol) TargetPixelSize(cols, rows int) (int, int) {
	return cols * 2, rows * 4
}

func still(w, h int) *frame.Source {
	return frame.NewSingle(frame.Frame{Pix: make([]byte, w*h*frame.Channels), Width: w, Height: h})
}

func animated(t *testing.T, n int) *frame.Source {
	t.Helper()
	frames := make([]frame.Frame, n)
	delays := make([]time.Duration, n)
	for i := range frames {
		frames[i] = frame.Frame{Pix: bytes.Repeat([]byte{byte(i)}, 4*4*frame.Channels), Width: 4, Height: 4}
		delays[i] = 20 * time.Millisecond
	}
	src, err := frame.NewSequence(frames, delays)
	require.NoError(t, err)
	return src
}

func newModel(src *frame.Source, p *fakeProtocol, opts Options) Model {
	if opts.Path == "" {
		opts.Path = "/pics/cat.png"
	}
	return New(src, surface.New(p), opts)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_DefaultsTitleToFileName(t *testing.T) {
	m := newModel(still(4, 4), &fakeProtocol{}, Options{})
	assert.Equal(t, "cat.png", m.opts.Title)
	assert.NotNil(t, m.Init())
	assert.Nil(t, m.Viewport())
	assert.Empty(t, m.View(), "nothing to show before the first size")
}

func TestWindowSize_CreatesViewport(t *testing.T) {
	p := &fakeProtocol{}
	m := newModel(still(40, 40), p, Options{ShowStatus: true})

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 20, Height: 11})
	require.NotNil(t, m.Viewport())
	assert.Nil(t, cmd, "stills do not start a clock")
	assert.False(t, m.Playing())

	assert.Equal(t, 1, p.encodes)
	assert.Equal(t, 20, p.cols)
	assert.Equal(t, 10, p.rows, "status bar row excluded")
	w, h := m.surface.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 40, h)
}

func TestWindowSize_ZeroIgnored(t *testing.T) {
	m := newModel(still(4, 4), &fakeProtocol{}, Options{ShowStatus: true})
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 10, Height: 1})
	assert.Nil(t, cmd)
	assert.Nil(t, m.Viewport())
}

func TestWindowSize_RefitOnResize(t *testing.T) {
	m := newModel(still(40, 40), &fakeProtocol{}, Options{RefitOnResize: true})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Equal(t, 1.0, m.Viewport().Zoom())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	assert.Equal(t, 0.5, m.Viewport().Zoom(), "40px image in a 20px window")

	m = newModel(still(40, 40), &fakeProtocol{}, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	assert.Equal(t, 1.0, m.Viewport().Zoom(), "zoom kept without refit")
}

func TestKeys_ZoomAndPan(t *testing.T) {
	m := newModel(still(40, 40), &fakeProtocol{}, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	v := m.Viewport()

	m, _ = update(t, m, runes("+"))
	assert.InDelta(t, 1.1, v.Zoom(), 1e-9)
	m, _ = update(t, m, runes("="))
	assert.InDelta(t, 1.2, v.Zoom(), 1e-9)
	m, _ = update(t, m, runes("-"))
	m, _ = update(t, m, runes("-"))
	assert.Equal(t, 1.0, v.Zoom())

	m, _ = update(t, m, runes("l"))
	assert.Equal(t, image.Pt(4, 0), v.Pan())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, image.Pt(4, 4), v.Pan())

	m, _ = update(t, m, runes("f"))
	assert.Equal(t, 0.5, v.Zoom())

	m, _ = update(t, m, runes("0"))
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, image.Point{}, v.Pan())

	_, cmd := update(t, m, runes("x"))
	assert.Nil(t, cmd, "unbound key")
}

func TestKeys_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m := newModel(still(4, 4), &fakeProtocol{}, Options{})
			_, cmd := update(t, m, key)
			assert.True(t, isQuit(cmd))
		})
	}
}

func TestKeys_ToggleStatusBar(t *testing.T) {
	p := &fakeProtocol{}
	m := newModel(still(40, 40), p, Options{ShowStatus: true})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Equal(t, 9, p.rows)

	m, _ = update(t, m, runes("s"))
	assert.False(t, m.ShowStatus)
	assert.Equal(t, 10, p.rows, "image takes the freed row")
	assert.Len(t, strings.Split(m.View(), "\n"), 10)
}

func TestPresentFailureQuits(t *testing.T) {
	p := &fakeProtocol{}
	m := newModel(still(40, 40), p, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})

	p.err = errors.New("terminal gone")
	m, cmd := update(t, m, runes("+"))
	assert.True(t, isQuit(cmd))
	assert.Contains(t, m.ErrorMsg, "Failed to draw image")
}

func TestInitialPresentFailureQuits(t *testing.T) {
	p := &fakeProtocol{err: errors.New("terminal gone")}
	m := newModel(still(4, 4), p, Options{})
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.True(t, isQuit(cmd))
	assert.NotEmpty(t, m.ErrorMsg)
}

func TestView_Layout(t *testing.T) {
	m := newModel(still(40, 40), &fakeProtocol{}, Options{ShowStatus: true, Title: "holiday", FileSize: 2048})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 5})

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 5)
	for _, l := range lines[:3] {
		assert.Equal(t, strings.Repeat(" ", 60), l)
	}
	assert.Contains(t, lines[3], "<img>", "image drawn after the area it covers")
	assert.NotContains(t, lines[2], "<img>")

	status := lines[4]
	assert.Contains(t, status, "holiday")
	assert.Contains(t, status, "40x40")
	assert.Contains(t, status, "100%")
	assert.Contains(t, status, "2.0 KiB")
	assert.Contains(t, status, "KiB decoded")
	assert.NotContains(t, status, "frame")
}

func TestView_StatusBarTruncated(t *testing.T) {
	m := newModel(still(4, 4), &fakeProtocol{}, Options{ShowStatus: true, Title: strings.Repeat("long", 20)})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 12, Height: 3})

	lines := strings.Split(m.View(), "\n")
	assert.Contains(t, lines[len(lines)-1], "…")
}

func TestAnimation_AdvancesAndStops(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		p := &fakeProtocol{}
		m := newModel(animated(t, 3), p, Options{ShowStatus: true})

		m, wait := update(t, m, tea.WindowSizeMsg{Width: 80, Height: 3})
		require.NotNil(t, wait)
		assert.True(t, m.Playing())
		idx, n := m.Viewport().FrameIndex()
		assert.Equal(t, 0, idx)
		assert.Equal(t, 3, n)

		for want := 1; want <= 4; want++ {
			msg := wait()
			require.IsType(t, clock.Advance{}, msg)
			m, wait = update(t, m, msg)
			idx, _ = m.Viewport().FrameIndex()
			assert.Equal(t, want%3, idx)
		}
		assert.Contains(t, m.View(), "frame 2/3")

		assert.Equal(t, "<clear>", m.Close())
		assert.False(t, m.Playing())
		assert.Nil(t, wait(), "pending wait returns once the sink closes")
	})
}

func TestAnimation_QuitStopsPlayback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		m := newModel(animated(t, 2), &fakeProtocol{}, Options{})
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 8, Height: 3})

		m, cmd := update(t, m, runes("q"))
		assert.True(t, isQuit(cmd))

		// The worker exits on its own at its next signal.
		time.Sleep(time.Second)
		synctest.Wait()
		select {
		case <-m.clock.Done():
		default:
			t.Fatal("clock worker still running after quit")
		}
		m.Close()
	})
}

func TestKeys_HelpLine(t *testing.T) {
	p := &fakeProtocol{}
	m := newModel(still(40, 40), p, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 400, Height: 10})
	assert.Equal(t, 10, p.rows)

	m, _ = update(t, m, runes("?"))
	assert.True(t, m.ShowHelp)
	assert.Equal(t, 9, p.rows, "help takes the bottom row")

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 10)
	help := lines[9]
	assert.Contains(t, help, "+/=")
	assert.Contains(t, help, "Zoom in")
	assert.Contains(t, help, "Pan left")
	assert.NotContains(t, help, "40x40", "help replaces the status line")

	m, _ = update(t, m, runes("?"))
	assert.False(t, m.ShowHelp)
	assert.Equal(t, 10, p.rows)
}
