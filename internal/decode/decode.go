// Package decode loads image files into frame sources.
//
// Still images are downscaled to fit a maximum size. Animated GIFs and
// WebPs are composited into full-canvas frames at native resolution.
package decode

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder for image.Decode
	_ "image/png"  // Register PNG decoder for image.Decode
	"io"
	"os"

	_ "github.com/deepteams/webp" // Register WebP decoder for image.Decode and animation frames
	_ "golang.org/x/image/bmp"    // Register BMP decoder for image.Decode
	_ "golang.org/x/image/tiff"   // Register TIFF decoder for image.Decode

	"github.com/llehouerou/vu/internal/frame"
)

var (
	ErrNoFrames  = errors.New("image has no frames")
	ErrMalformed = errors.New("malformed image")
)

// Error reports a file that could not be read or decoded.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Decode reads the image at path. Still images larger than
// maxWidth x maxHeight are resized to fit, preserving the aspect ratio;
// a non-positive bound disables fitting. Animated images are returned at
// native resolution. Errors are of type *Error.
func Decode(path string, maxWidth, maxHeight int) (*frame.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer f.Close()

	src, err := DecodeReader(f, maxWidth, maxHeight)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return src, nil
}

// DecodeReader is Decode for an already opened stream.
func DecodeReader(r io.Reader, maxWidth, maxHeight int) (src *frame.Source, err error) {
	// The WebP container parser panics on some malformed headers.
	defer func() {
		if p := recover(); p != nil {
			src, err = nil, fmt.Errorf("%w: %v", ErrMalformed, p)
		}
	}()

	br := bufio.NewReader(r)

	var decodeAnimated func(io.Reader) (*frame.Source, error)
	switch {
	case isGIF(br):
		decodeAnimated = decodeGIF
	case isAnimatedWebP(br):
		decodeAnimated = decodeAnimatedWebP
	}
	if decodeAnimated != nil {
		src, err = decodeAnimated(br)
		if err != nil {
			return nil, err
		}
		if !src.IsAnimated() {
			src = src.Fit(maxWidth, maxHeight)
		}
		return src, nil
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, err
	}
	return frame.NewSingle(frame.FromImage(img)).Fit(maxWidth, maxHeight), nil
}

func isGIF(r *bufio.Reader) bool {
	return hasMagic("GIF8?a", r)
}

// isAnimatedWebP reports whether r holds an extended WebP file with the
// animation flag set.
func isAnimatedWebP(r *bufio.Reader) bool {
	const animationFlag = 0x02
	if !hasMagic("RIFF????WEBPVP8X", r) {
		return false
	}
	b, err := r.Peek(21)
	if err != nil {
		return false
	}
	return b[20]&animationFlag != 0
}

// hasMagic peeks at the head of r and compares it with pattern, where
// '?' stands for any byte. The reader is not advanced.
func hasMagic(pattern string, r *bufio.Reader) bool {
	head, err := r.Peek(len(pattern))
	if err != nil {
		return false
	}
	for i := range pattern {
		if pattern[i] != '?' && pattern[i] != head[i] {
			return false
		}
	}
	return true
}
