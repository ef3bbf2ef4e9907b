package decode

import (
	"fmt"
	"io"
	"time"

	"github.com/deepteams/webp/animation"

	"github.com/llehouerou/vu/internal/frame"
)

// decodeAnimatedWebP decodes every frame of an animated WebP. Frames come
// back from the animation decoder already composited onto the canvas.
func decodeAnimatedWebP(r io.Reader) (*frame.Source, error) {
	anim, err := animation.Decode(r)
	if err != nil {
		return nil, err
	}
	if len(anim.Frames) == 0 {
		return nil, ErrNoFrames
	}
	if err := anim.DecodeFramesParallel(); err != nil {
		return nil, fmt.Errorf("decode webp frames: %w", err)
	}

	dec, err := animation.NewAnimDecoder(anim)
	if err != nil {
		return nil, err
	}
	frames := make([]frame.Frame, 0, len(anim.Frames))
	delays := make([]time.Duration, 0, len(anim.Frames))
	for dec.HasNext() {
		img, delay, err := dec.NextFrame()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", len(frames), err)
		}
		frames = append(frames, frame.FromImage(img))
		delays = append(delays, delay)
	}

	if len(frames) == 1 {
		return frame.NewSingle(frames[0]), nil
	}
	return frame.NewSequence(frames, delays)
}
