package frame

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/nfnt/resize"
)

// Source is either a single still frame or a cyclic sequence of frames
// with per-frame display durations. Every frame of a Source has the same
// canvas size.
//
// A Source is not safe for concurrent use.
type Source struct {
	frames []Frame
	delays []time.Duration // nil for a single frame
	cursor int
	width  int
	height int
}

// NewSingle returns a Source holding one still frame.
func NewSingle(f Frame) *Source {
	return &Source{
		frames: []Frame{f},
		width:  f.Width,
		height: f.Height,
	}
}

// NewSequence returns an animated Source. frames and delays must be
// non-empty, of equal length, and all frames must share one canvas size.
func NewSequence(frames []Frame, delays []time.Duration) (*Source, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySequence
	}
	if len(frames) != len(delays) {
		return nil, fmt.Errorf("%w: %d frames, %d delays", ErrDelayMismatch, len(frames), len(delays))
	}
	w, h := frames[0].Width, frames[0].Height
	for i, f := range frames[1:] {
		if f.Width != w || f.Height != h {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, want %dx%d", ErrCanvasMismatch, i+1, f.Width, f.Height, w, h)
		}
	}
	return &Source{
		frames: frames,
		delays: delays,
		width:  w,
		height: h,
	}, nil
}

// Size returns the canvas dimensions.
func (s *Source) Size() (width, height int) {
	return s.width, s.height
}

// Delays returns the per-frame display durations, or nil for a still image.
func (s *Source) Delays() []time.Duration {
	return s.delays
}

// IsAnimated reports whether the source is a sequence.
func (s *Source) IsAnimated() bool {
	return s.delays != nil
}

// Len returns the number of frames.
func (s *Source) Len() int {
	return len(s.frames)
}

// Cursor returns the number of frames handed out by NextFrame so far.
func (s *Source) Cursor() int {
	return s.cursor
}

// Seek sets the cursor. It has no effect on a still image.
func (s *Source) Seek(cursor int) {
	if s.delays == nil || cursor < 0 {
		return
	}
	s.cursor = cursor
}

// NextFrame returns the pixels of the frame at the cursor and moves the
// cursor on by one, wrapping around the sequence. A still image always
// returns the same buffer.
func (s *Source) NextFrame() []byte {
	if s.delays == nil {
		return s.frames[0].Pix
	}
	pix := s.frames[s.cursor%len(s.frames)].Pix
	s.cursor++
	return pix
}

// Current returns the pixels most recently returned by NextFrame, or the
// first frame if NextFrame has not been called yet.
func (s *Source) Current() []byte {
	return s.frames[s.Index()].Pix
}

// Index returns the position of the Current frame in the sequence.
func (s *Source) Index() int {
	if s.cursor == 0 {
		return 0
	}
	return (s.cursor - 1) % len(s.frames)
}

// Scaled returns a copy of s with every frame resized by factor using
// nearest-neighbour sampling. Delays and cursor are preserved. It panics
// if factor is not positive.
func (s *Source) Scaled(factor float64) *Source {
	if !(factor > 0) {
		panic(fmt.Sprintf("frame: invalid scale factor %v", factor))
	}
	w, h := ScaleSize(s.width, s.height, factor)
	return s.resized(w, h, resize.NearestNeighbor)
}

// Fit returns a copy of s downscaled with Lanczos resampling so that it
// fits within maxWidth x maxHeight, preserving the aspect ratio. The
// receiver itself is returned if it already fits.
func (s *Source) Fit(maxWidth, maxHeight int) *Source {
	if maxWidth <= 0 || maxHeight <= 0 || s.width == 0 || s.height == 0 {
		return s
	}
	scale := min(float64(maxWidth)/float64(s.width), float64(maxHeight)/float64(s.height))
	if scale >= 1 {
		return s
	}
	w, h := ScaleSize(s.width, s.height, scale)
	return s.resized(w, h, resize.Lanczos3)
}

func (s *Source) resized(w, h int, interp resize.InterpolationFunction) *Source {
	frames := make([]Frame, len(s.frames))
	for i, f := range s.frames {
		frames[i] = resizeFrame(f, w, h, interp)
	}
	return &Source{
		frames: frames,
		delays: slices.Clone(s.delays),
		cursor: s.cursor,
		width:  w,
		height: h,
	}
}

func resizeFrame(f Frame, w, h int, interp resize.InterpolationFunction) Frame {
	if w == f.Width && h == f.Height {
		return f.Clone()
	}
	if f.Width == 0 || f.Height == 0 {
		return Frame{Pix: make([]byte, w*h*Channels), Width: w, Height: h}
	}
	//nolint:gosec // dimensions are positive and bounded by the image size
	img := resize.Resize(uint(w), uint(h), f.Image(), interp)
	return FromImage(img)
}

// ScaleSize returns round(dim*factor) for each axis independently, never
// less than one pixel for a non-empty dimension.
func ScaleSize(width, height int, factor float64) (int, int) {
	return scaleDim(width, factor), scaleDim(height, factor)
}

func scaleDim(dim int, factor float64) int {
	if dim == 0 {
		return 0
	}
	return max(int(math.Round(float64(dim)*factor)), 1)
}
