package decode

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/llehouerou/vu/internal/frame"
)

// decodeGIF decodes every frame of a GIF and composites it onto the
// logical screen, honouring each frame's disposal method. A GIF with a
// single frame becomes a still source.
func decodeGIF(r io.Reader) (*frame.Source, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	if g.Delay != nil && len(g.Delay) != len(g.Image) {
		return nil, fmt.Errorf("mismatched image count and delay count: %d != %d", len(g.Image), len(g.Delay))
	}
	if g.Disposal != nil && len(g.Disposal) != len(g.Image) {
		return nil, fmt.Errorf("mismatched image count and disposal count: %d != %d", len(g.Image), len(g.Disposal))
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
		for _, img := range g.Image[1:] {
			bounds = bounds.Union(img.Bounds())
		}
		bounds = image.Rect(0, 0, bounds.Max.X, bounds.Max.Y)
	}
	canvas := image.NewNRGBA(bounds)

	frames := make([]frame.Frame, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))
	for i, img := range g.Image {
		disposal := byte(gif.DisposalNone)
		if g.Disposal != nil {
			disposal = g.Disposal[i]
		}

		var restore []byte
		if disposal == gif.DisposalPrevious {
			restore = make([]byte, len(canvas.Pix))
			copy(restore, canvas.Pix)
		}

		draw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)

		snap := make([]byte, len(canvas.Pix))
		copy(snap, canvas.Pix)
		frames = append(frames, frame.Frame{Pix: snap, Width: bounds.Dx(), Height: bounds.Dy()})

		var delay time.Duration
		if g.Delay != nil {
			// GIF delays are in hundredths of a second.
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			// Restore to a transparent background, as browsers do.
			draw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, restore)
		}
	}

	if len(frames) == 1 {
		return frame.NewSingle(frames[0]), nil
	}
	return frame.NewSequence(frames, delays)
}
