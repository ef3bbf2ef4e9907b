package viewport

import (
	"image"

	"github.com/llehouerou/vu/internal/frame"
)

const channels = frame.Channels

// Padding returns the offset that centers an image of size img inside a
// window of size win along one axis, or 0 if the image does not fit.
func Padding(img, win int) int {
	return max(win-img, 0) / 2
}

// Span returns the half-open range [start, end) of image coordinates
// visible along one axis for a center-anchored offset. A zero offset
// centers the image; positive offsets move the window toward higher
// coordinates.
func Span(img, win, offset int) (start, end int) {
	center := img/2 + offset
	start = min(max(center-win/2, 0), img)
	end = min(start+win, img)
	return start, end
}

// Limits returns the range of center-anchored offsets along one axis for
// which the window stays on the image. At lo the span starts at 0 and at
// hi it ends at img. Both are 0 when the image fits in the window.
// When img-win is odd, hi is one larger than -lo.
func Limits(img, win int) (lo, hi int) {
	if img <= win {
		return 0, 0
	}
	half := img/2 - win/2
	return -half, (img - win) - half
}

// ClampPan limits pan so that neither axis pushes the window off an image
// of the given size.
func ClampPan(pan, img, win image.Point) image.Point {
	xlo, xhi := Limits(img.X, win.X)
	ylo, yhi := Limits(img.Y, win.Y)
	return image.Point{
		X: min(max(pan.X, xlo), xhi),
		Y: min(max(pan.Y, ylo), yhi),
	}
}

// Window copies the visible part of src, an srcW x srcH image, into dst,
// a dstW x dstH buffer, for the center-anchored offset pan. An image
// smaller than the window on an axis is centered on that axis; a larger
// one is cropped. Bytes of dst outside the copied span are left as they
// are.
func Window(dst []byte, dstW, dstH int, src []byte, srcW, srcH int, pan image.Point) {
	padX := Padding(srcW, dstW)
	padY := Padding(srcH, dstH)

	x0, x1 := Span(srcW, dstW, pan.X)
	y0, y1 := Span(srcH, dstH, pan.Y)

	n := (x1 - x0) * channels
	if n <= 0 {
		return
	}
	for row, y := 0, y0; y < y1; row, y = row+1, y+1 {
		s := (y*srcW + x0) * channels
		d := ((padY+row)*dstW + padX) * channels
		copy(dst[d:d+n], src[s:s+n])
	}
}
