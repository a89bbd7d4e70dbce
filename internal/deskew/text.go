package deskew

import (
	"image"
	"math"

	"github.com/ironsheep/plate-reader/internal/geometry"
	"github.com/ironsheep/plate-reader/internal/imaging"
)

// TextDeskewer estimates the tilt from the character row itself: a least
// squares line through the centers of the character-like components.
type TextDeskewer struct {
	cfg Config
}

// NewTextDeskewer creates the strategy.
func NewTextDeskewer(cfg Config) *TextDeskewer {
	return &TextDeskewer{cfg: cfg}
}

// Deskew implements Deskewer.
func (d *TextDeskewer) Deskew(img image.Image) image.Image {
	angle, ok := d.Angle(img)
	return level(img, angle, ok, d.cfg)
}

// Angle returns the counter-clockwise rotation in degrees that levels the
// character row. ok is false when too few characters were found.
func (d *TextDeskewer) Angle(img image.Image) (angle float64, ok bool) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0, false
	}
	mask, _ := imaging.NormalizePolarity(imaging.BinarizeOtsu(imaging.Lightness(img)))
	xs, ys := d.centers(mask)
	if altX, altY := d.centers(imaging.InvertMask(mask)); len(altX) > len(xs) {
		xs, ys = altX, altY
	}
	if len(xs) < d.cfg.MinContours {
		return 0, false
	}

	slope, _, ok := geometry.FitLine(xs, ys)
	if !ok {
		return 0, false
	}
	// y grows downward, so a row descending to the right has a positive
	// slope and needs a counter-clockwise turn.
	return math.Atan(slope) * 180 / math.Pi, true
}

// centers returns the box centers of the character-like shapes of mask.
func (d *TextDeskewer) centers(mask *image.Gray) (xs, ys []float64) {
	bounds := mask.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())
	for _, c := range geometry.FindContours(mask) {
		h, w := float64(c.Box.Dy()), float64(c.Box.Dx())
		if h < d.cfg.MinHeightRatio*height || h > d.cfg.MaxHeightRatio*height || w > d.cfg.MaxWidthRatio*width {
			continue
		}
		// Corner wedges of a tilted crop have glyph-like boxes too.
		if geometry.ReachesCorner(c.Box, bounds) {
			continue
		}
		cx, cy := geometry.Center(c.Box)
		xs = append(xs, cx)
		ys = append(ys, cy)
	}
	return xs, ys
}
