package surface

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProtocol struct {
	encodes int
	lastImg *image.NRGBA
	cols    int
	rows    int
	err     error
	clears  int
}

func (p *fakeProtocol) Encode(img *image.NRGBA, cols, rows int) (string, error) {
	p.encodes++
	p.lastImg, p.cols, p.rows = img, cols, rows
	if p.err != nil {
		return "", p.err
	}
	return "<img>", nil
}

func (p *fakeProtocol) Clear() string {
	p.clears++
	return "<clear>"
}

func (p *fakeProtocol) TargetPixelSize(cols, rows int) (int, int) {
	return cols * 2, rows * 4
}

func TestSurface_ResizeAndPresent(t *testing.T) {
	p := &fakeProtocol{}
	s := New(p)
	assert.Empty(t, s.View(), "nothing presented yet")

	w, h := s.SetCells(10, 5)
	assert.Equal(t, 20, w)
	assert.Equal(t, 20, h)
	require.NoError(t, s.Resize(w, h))

	bw, bh := s.Size()
	assert.Equal(t, 20, bw)
	assert.Equal(t, 20, bh)
	assert.Len(t, s.Pix(), 20*20*4)

	s.Pix()[0] = 7
	require.NoError(t, s.Present())
	assert.Equal(t, 1, p.encodes)
	assert.Equal(t, byte(7), p.lastImg.Pix[0], "encodes the live buffer")
	assert.Equal(t, 10, p.cols)
	assert.Equal(t, 5, p.rows)

	view := s.View()
	assert.True(t, strings.HasPrefix(view, "\x1b[s\x1b[1;1H<img>\x1b[u"))
	assert.NotEqual(t, view, s.View(), "every view is unique")
}

func TestSurface_ResizeSameSizeKeepsBuffer(t *testing.T) {
	s := New(&fakeProtocol{})
	require.NoError(t, s.Resize(4, 4))
	s.Pix()[0] = 1
	require.NoError(t, s.Resize(4, 4))
	assert.Equal(t, byte(1), s.Pix()[0])

	assert.Error(t, s.Resize(-1, 4))
}

func TestSurface_PresentErrorKeepsLastView(t *testing.T) {
	p := &fakeProtocol{}
	s := New(p)
	require.NoError(t, s.Resize(2, 2))
	require.NoError(t, s.Present())

	p.err = errors.New("encoder failed")
	assert.ErrorIs(t, s.Present(), p.err)
	assert.Contains(t, s.View(), "<img>")
}

func TestSurface_Close(t *testing.T) {
	p := &fakeProtocol{}
	s := New(p)
	require.NoError(t, s.Resize(2, 2))
	require.NoError(t, s.Present())

	assert.Equal(t, "<clear>", s.Close())
	assert.True(t, s.Closed())
	assert.Empty(t, s.Close(), "second close is a no-op")
	assert.Equal(t, 1, p.clears)

	assert.ErrorIs(t, s.Present(), ErrSurfaceLost)
	assert.ErrorIs(t, s.Resize(3, 3), ErrSurfaceLost)
	assert.Empty(t, s.View())
	assert.Equal(t, 1, p.encodes)
}
