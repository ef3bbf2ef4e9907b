package surface

import "image"

// Protocol abstracts the terminal graphics protocol (Kitty or Sixel).
type Protocol interface {
	// Encode returns the escape sequence that draws img at the cursor,
	// covering cols x rows terminal cells.
	// Kitty: transmits and places in one command, replacing the previous
	// placement.
	// Sixel: emits the full image as sixel data.
	Encode(img *image.NRGBA, cols, rows int) (string, error)

	// Clear returns the escape sequence that removes the drawn image.
	// Sixel: no-op (returns "").
	Clear() string

	// TargetPixelSize returns the pixel dimensions of a buffer that will
	// be displayed in the given number of terminal cells.
	// Sixel: leaves 1 row of vertical margin to prevent terminal scroll
	// when the image reaches the bottom row.
	TargetPixelSize(cols, rows int) (width, height int)
}
