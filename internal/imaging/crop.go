package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Crop copies region r (in img's coordinate space) into a new zero-origin
// image. The region is clipped to img's bounds.
func Crop(img image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r)
}

// Pad surrounds img with a border of n pixels filled with bg.
func Pad(img image.Image, n int, bg color.Color) *image.NRGBA {
	bounds := img.Bounds()
	if n <= 0 {
		return imaging.Clone(img)
	}
	canvas := imaging.New(bounds.Dx()+2*n, bounds.Dy()+2*n, bg)
	return imaging.Paste(canvas, img, image.Pt(n, n))
}

// Rotate turns img counter-clockwise by angle degrees. The canvas grows to
// hold the whole rotated image and the uncovered corners are filled with bg.
func Rotate(img image.Image, angle float64, bg color.Color) *image.NRGBA {
	return imaging.Rotate(img, angle, bg)
}

// Invert returns the photographic negative of img.
func Invert(img image.Image) *image.NRGBA {
	return imaging.Invert(img)
}
