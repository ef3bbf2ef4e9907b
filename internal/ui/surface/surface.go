// Package surface presents RGBA pixel buffers in the terminal through a
// graphics protocol.
package surface

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync/atomic"
)

// Fallback cell size when the terminal does not report pixel dimensions.
const (
	defaultCellW = 8
	defaultCellH = 16
)

var ErrSurfaceLost = errors.New("surface lost")

// viewCounter is incremented on every View call to ensure the output string
// is always unique. This prevents Bubble Tea's diff renderer from skipping
// the image data when only surrounding text changed, which would leave the
// image partially erased.
var viewCounter atomic.Uint64

// Surface is a pixel buffer drawn at the top-left corner of the terminal.
// Present encodes the buffer; View returns the escape sequence to write.
//
// A Surface is owned by the UI goroutine and not safe for concurrent use.
type Surface struct {
	proto  Protocol
	img    *image.NRGBA
	cols   int
	rows   int
	out    string
	closed bool
}

// New returns an empty surface drawing through p.
func New(p Protocol) *Surface {
	return &Surface{proto: p, img: image.NewNRGBA(image.Rectangle{})}
}

// SetCells sets the terminal cell area the image covers and returns the
// pixel size the buffer should be resized to.
func (s *Surface) SetCells(cols, rows int) (width, height int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	return s.proto.TargetPixelSize(s.cols, s.rows)
}

// Cells returns the cell area set by SetCells.
func (s *Surface) Cells() (cols, rows int) {
	return s.cols, s.rows
}

func (s *Surface) Pix() []byte {
	return s.img.Pix
}

func (s *Surface) Size() (width, height int) {
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// Resize reallocates the buffer. The contents are undefined until the
// next render.
func (s *Surface) Resize(width, height int) error {
	if s.closed {
		return ErrSurfaceLost
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if width == s.img.Rect.Dx() && height == s.img.Rect.Dy() {
		return nil
	}
	s.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Present encodes the current buffer contents for the next View.
func (s *Surface) Present() error {
	if s.closed {
		return ErrSurfaceLost
	}
	out, err := s.proto.Encode(s.img, s.cols, s.rows)
	if err != nil {
		return err
	}
	s.out = out
	return nil
}

// View returns the escape sequence that draws the last presented buffer,
// or "" if nothing has been presented.
func (s *Surface) View() string {
	if s.out == "" || s.closed {
		return ""
	}
	// Save cursor, move to the top-left corner, emit image, restore cursor.
	// A monotonic counter embedded in a no-op SGR sequence keeps the output
	// unique.
	seq := viewCounter.Add(1)
	var sb strings.Builder
	sb.Grow(len(s.out) + 32)
	sb.WriteString("\x1b[s\x1b[1;1H")
	sb.WriteString(s.out)
	fmt.Fprintf(&sb, "\x1b[u\x1b[%dm\x1b[0m", seq%255+1)
	return sb.String()
}

// Close releases the surface and returns the escape sequence that removes
// the image. Every later Present or Resize fails with ErrSurfaceLost.
func (s *Surface) Close() string {
	if s.closed {
		return ""
	}
	s.closed = true
	s.out = ""
	return s.proto.Clear()
}

// Closed reports whether Close has been called.
func (s *Surface) Closed() bool {
	return s.closed
}
