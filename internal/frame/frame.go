// Package frame holds decoded pixel data for a still image or an animated
// sequence in a fixed 4-channel RGBA layout.
package frame

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Channels is the number of bytes per pixel.
const Channels = 4

var (
	ErrBadFrame       = errors.New("frame: buffer length does not match dimensions")
	ErrEmptySequence  = errors.New("frame: sequence has no frames")
	ErrDelayMismatch  = errors.New("frame: frame count and delay count differ")
	ErrCanvasMismatch = errors.New("frame: sequence frames differ in size")
)

// Frame is one decoded raster image. Pix is laid out row-major,
// Channels bytes per pixel, in the order of image.NRGBA (straight alpha).
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// New returns a Frame over pix, checking that the buffer length matches
// the given dimensions.
func New(pix []byte, width, height int) (Frame, error) {
	if width < 0 || height < 0 || len(pix) != width*height*Channels {
		return Frame{}, fmt.Errorf("%w: %dx%d with %d bytes", ErrBadFrame, width, height, len(pix))
	}
	return Frame{Pix: pix, Width: width, Height: height}, nil
}

// FromImage converts img to a Frame anchored at the origin.
func FromImage(img image.Image) Frame {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*Channels {
		return Frame{Pix: n.Pix[:b.Dx()*b.Dy()*Channels], Width: b.Dx(), Height: b.Dy()}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return Frame{Pix: dst.Pix, Width: b.Dx(), Height: b.Dy()}
}

// Image returns an image.NRGBA sharing the frame's pixels.
func (f Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * Channels,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Pix: pix, Width: f.Width, Height: f.Height}
}
