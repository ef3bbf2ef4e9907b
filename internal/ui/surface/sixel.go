package surface

import (
	"bytes"
	"fmt"
	"image"

	"github.com/mattn/go-sixel"
)

// SixelProtocol implements Protocol using the Sixel graphics protocol.
type SixelProtocol struct {
	cellW  int
	cellH  int
	dither bool
}

// NewSixelProtocol creates a new SixelProtocol instance.
// It queries the terminal for actual cell pixel dimensions via TIOCGWINSZ.
func NewSixelProtocol() *SixelProtocol {
	cellW, cellH := getCellSize()
	return &SixelProtocol{cellW: cellW, cellH: cellH, dither: true}
}

func (s *SixelProtocol) Encode(img *image.NRGBA, _, _ int) (string, error) {
	if img.Rect.Empty() {
		return "", nil
	}
	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = s.dither

	if err := enc.Encode(img); err != nil {
		return "", fmt.Errorf("encode sixel: %w", err)
	}
	return buf.String(), nil
}

func (s *SixelProtocol) Clear() string {
	return ""
}

func (s *SixelProtocol) TargetPixelSize(cols, rows int) (width, height int) {
	return max(cols, 0) * s.cellW, max(rows-1, 0) * s.cellH
}
