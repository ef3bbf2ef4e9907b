package surface

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"
)

// kittyImageID is the fixed image and placement ID. Transmitting with the
// same IDs replaces the previous image without leaving ghost placements.
const kittyImageID = 1

// Each chunk max 4096 bytes of base64 payload.
const kittyChunkSize = 4096

// KittyProtocol implements Protocol using the Kitty graphics protocol.
type KittyProtocol struct {
	cellW int
	cellH int
}

// NewKittyProtocol creates a KittyProtocol sized to the terminal's cells.
func NewKittyProtocol() *KittyProtocol {
	cellW, cellH := getCellSize()
	return &KittyProtocol{cellW: cellW, cellH: cellH}
}

// Encode transmits img as raw RGBA and displays it in one command.
//
// a=T: transmit and display
// f=32: 32-bit RGBA pixels, s/v: width and height in pixels
// o=z: payload is zlib compressed
// i/p: fixed image and placement ID
// c/r: size in cells
// C=1: don't move cursor after placing
// q=2: quiet mode (suppress responses)
func (k *KittyProtocol) Encode(img *image.NRGBA, cols, rows int) (string, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	for y := range h {
		off := y * img.Stride
		if _, err := zw.Write(img.Pix[off : off+w*4]); err != nil {
			return "", fmt.Errorf("compress pixels: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress pixels: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	var sb strings.Builder
	sb.Grow(len(encoded) + len(encoded)/kittyChunkSize*16 + 128)
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		moreChunks := 0
		if end < len(encoded) {
			moreChunks = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			fmt.Fprintf(&sb, "a=T,f=32,s=%d,v=%d,o=z,i=%d,p=%d,", w, h, kittyImageID, kittyImageID)
			if cols > 0 && rows > 0 {
				fmt.Fprintf(&sb, "c=%d,r=%d,", cols, rows)
			}
			fmt.Fprintf(&sb, "C=1,q=2,m=%d;", moreChunks)
		} else {
			fmt.Fprintf(&sb, "m=%d;", moreChunks)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)
	}
	return sb.String(), nil
}

// Clear deletes the image and clears all its placements.
func (k *KittyProtocol) Clear() string {
	// a=d: delete
	// d=I: delete by image ID, freeing the stored data
	return fmt.Sprintf("%sa=d,d=I,i=%d,q=2;%s", escStart, kittyImageID, escEnd)
}

func (k *KittyProtocol) TargetPixelSize(cols, rows int) (width, height int) {
	return max(cols, 0) * k.cellW, max(rows, 0) * k.cellH
}
