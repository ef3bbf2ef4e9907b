// Package viewport keeps the zoom and pan state of a displayed image and
// renders the visible window of the current frame into a presentation
// buffer.
//
// A Viewport is owned by a single goroutine (the event loop) and is not
// safe for concurrent use.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/llehouerou/vu/internal/frame"
)

// Defaults for Options.
const (
	DefaultZoomStep = 0.1
	DefaultMinZoom  = 1.0
	DefaultPanStep  = 0.1 // fraction of the image dimension
)

// minZoom is the positive floor for any zoom, including refits.
const minZoom = 0.01

// ErrPresent wraps errors returned by Buffer.Present.
var ErrPresent = errors.New("viewport: present failed")

// Buffer is the presentation buffer: Width*Height*4 bytes owned by the
// host's graphics surface.
type Buffer interface {
	// Pix returns the pixel bytes, Width*Height*4 long.
	Pix() []byte
	// Size returns the buffer dimensions in pixels.
	Size() (width, height int)
	// Resize reallocates the buffer for new dimensions.
	Resize(width, height int) error
	// Present shows the buffer contents.
	Present() error
}

// Options tunes zoom and pan behaviour.
type Options struct {
	ZoomStep   float64
	MinZoom    float64
	PanStep    float64
	Background color.NRGBA
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.ZoomStep <= 0 {
		o.ZoomStep = DefaultZoomStep
	}
	if o.MinZoom <= 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.PanStep <= 0 {
		o.PanStep = DefaultPanStep
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Viewport renders a zoomed and panned window of a frame source.
type Viewport struct {
	zoom float64
	pan  image.Point

	buf  Buffer
	base *frame.Source

	// scaled is base resized to zoom, or nil at zoom 1.
	scaled *frame.Source

	opts Options
	log  *slog.Logger
}

// New takes ownership of src, sets zoom 1 and a centered pan, and windows
// the first frame into buf. Nothing is presented until Draw or another
// operation is called.
func New(src *frame.Source, buf Buffer, opts Options) *Viewport {
	opts = opts.withDefaults()
	v := &Viewport{
		zoom: 1,
		buf:  buf,
		base: src,
		opts: opts,
		log:  opts.Logger,
	}
	v.render(v.base.NextFrame())
	return v
}

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current center-anchored pan offset in pixels.
func (v *Viewport) Pan() image.Point { return v.pan }

// Source returns the base frame source.
func (v *Viewport) Source() *frame.Source { return v.base }

// ImageSize returns the size of the image at the current zoom.
func (v *Viewport) ImageSize() (width, height int) {
	return v.active().Size()
}

// FrameIndex returns the position of the displayed frame and the frame count.
func (v *Viewport) FrameIndex() (index, count int) {
	src := v.active()
	return src.Index(), src.Len()
}

// PanLimits returns the allowed pan range for the current zoom and
// buffer size.
func (v *Viewport) PanLimits() (lo, hi image.Point) {
	iw, ih := v.ImageSize()
	bw, bh := v.buf.Size()
	lo.X, hi.X = Limits(iw, bw)
	lo.Y, hi.Y = Limits(ih, bh)
	return lo, hi
}

func (v *Viewport) active() *frame.Source {
	if v.scaled != nil {
		return v.scaled
	}
	return v.base
}

// Advance windows the next frame of the source and presents it. It
// reports whether presentation succeeded.
func (v *Viewport) Advance() bool {
	v.render(v.active().NextFrame())
	return v.Draw()
}

// Draw presents the buffer as it is, without advancing.
func (v *Viewport) Draw() bool {
	return v.present() == nil
}

func (v *Viewport) present() error {
	if err := v.buf.Present(); err != nil {
		v.log.Debug("present failed", "err", err)
		return fmt.Errorf("%w: %w", ErrPresent, err)
	}
	return nil
}

// refresh re-windows the frame on screen and presents it.
func (v *Viewport) refresh() bool {
	v.render(v.active().Current())
	return v.Draw()
}

// render clamps the pan and windows pix, a frame of the active source,
// into the buffer after clearing it to the background colour.
func (v *Viewport) render(pix []byte) {
	iw, ih := v.active().Size()
	bw, bh := v.buf.Size()
	v.pan = ClampPan(v.pan, image.Pt(iw, ih), image.Pt(bw, bh))

	dst := v.buf.Pix()
	fill(dst, v.opts.Background)
	Window(dst, bw, bh, pix, iw, ih, v.pan)
}

// fill sets every pixel of dst to c.
func fill(dst []byte, c color.NRGBA) {
	if c == (color.NRGBA{}) {
		clear(dst)
		return
	}
	if len(dst) < channels {
		return
	}
	dst[0], dst[1], dst[2], dst[3] = c.R, c.G, c.B, c.A
	for n := channels; n < len(dst); n *= 2 {
		copy(dst[n:], dst[:n])
	}
}

// ZoomIn increases the zoom by one step.
func (v *Viewport) ZoomIn() bool {
	return v.SetZoom(v.zoom + v.opts.ZoomStep)
}

// ZoomOut decreases the zoom by one step, stopping at the minimum zoom.
// A zoom already below the minimum (after a refit) is left as is.
func (v *Viewport) ZoomOut() bool {
	z := v.zoom - v.opts.ZoomStep
	if z < v.opts.MinZoom {
		z = min(v.zoom, v.opts.MinZoom)
	}
	return v.SetZoom(z)
}

// SetZoom sets the zoom level, regenerates the scaled source from the base
// source, and presents the result. The animation position is kept.
func (v *Viewport) SetZoom(z float64) bool {
	v.setZoom(z)
	return v.Draw()
}

func (v *Viewport) setZoom(z float64) {
	z = max(roundZoom(z), minZoom)

	// Carry the cursor over so a zoom change never rewinds the animation.
	v.base.Seek(v.active().Cursor())
	v.zoom = z
	if z == 1 {
		v.scaled = nil
	} else {
		v.scaled = v.base.Scaled(z)
	}

	w, h := v.active().Size()
	v.log.Debug("zoom changed", "zoom", z, "width", w, "height", h)
	v.render(v.active().Current())
}

// roundZoom removes floating point drift accumulated by repeated steps.
func roundZoom(z float64) float64 {
	return math.Round(z*1e6) / 1e6
}

// ResetView returns to zoom 1 with a centered pan.
func (v *Viewport) ResetView() bool {
	v.pan = image.Point{}
	return v.SetZoom(1)
}

// PanUp moves the window up by one step.
func (v *Viewport) PanUp() bool {
	_, h := v.ImageSize()
	v.pan.Y -= v.panStep(h)
	return v.refresh()
}

// PanDown moves the window down by one step.
func (v *Viewport) PanDown() bool {
	_, h := v.ImageSize()
	v.pan.Y += v.panStep(h)
	return v.refresh()
}

// PanLeft moves the window left by one step.
func (v *Viewport) PanLeft() bool {
	w, _ := v.ImageSize()
	v.pan.X -= v.panStep(w)
	return v.refresh()
}

// PanRight moves the window right by one step.
func (v *Viewport) PanRight() bool {
	w, _ := v.ImageSize()
	v.pan.X += v.panStep(w)
	return v.refresh()
}

func (v *Viewport) panStep(dim int) int {
	return int(math.Floor(float64(dim) * v.opts.PanStep))
}

// Resize changes the buffer dimensions and re-windows the current frame.
// With refit, the zoom is set so the base image fits the new size.
func (v *Viewport) Resize(width, height int, refit bool) error {
	if err := v.buf.Resize(width, height); err != nil {
		return fmt.Errorf("resize buffer to %dx%d: %w", width, height, err)
	}
	v.log.Debug("buffer resized", "width", width, "height", height, "refit", refit)

	z, ok := v.fitZoom()
	if refit && ok {
		v.setZoom(z)
	} else {
		v.render(v.active().Current())
	}
	return v.present()
}

// Fit sets the zoom so the base image fits the current buffer.
func (v *Viewport) Fit() bool {
	z, ok := v.fitZoom()
	if !ok {
		return v.refresh()
	}
	return v.SetZoom(z)
}

func (v *Viewport) fitZoom() (float64, bool) {
	iw, ih := v.base.Size()
	bw, bh := v.buf.Size()
	if iw == 0 || ih == 0 || bw == 0 || bh == 0 {
		return 0, false
	}
	return min(float64(bw)/float64(iw), float64(bh)/float64(ih)), true
}
