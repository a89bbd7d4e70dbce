package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/lucasb-eyer/go-colorful"
)

// Grayscale converts img to luma with a zero origin.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	return redChannel(effect.Grayscale(img))
}

// Lightness converts img to perceptual lightness (CIE L* scaled to 0-255).
//
// L* separates dark glyphs from a colored plate background better than luma
// does for yellow and light blue plates, at the cost of a per-pixel color
// space conversion. Use it on plate crops, not on full photographs.
func Lightness(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c, ok := colorful.MakeColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			out.Pix[y*out.Stride+x] = uint8(math.Round(math.Min(math.Max(l, 0), 1) * 255))
		}
	}
	return out
}

// BorderColor returns the mean color of the outermost pixel ring of img,
// averaged in CIE L*a*b* space. It is the fill used when rotating a plate so
// the uncovered corners blend into the plate background.
func BorderColor(img image.Image) color.Color {
	bounds := img.Bounds()
	if bounds.Empty() {
		return color.Black
	}

	var sl, sa, sb float64
	n := 0
	add := func(x, y int) {
		c, ok := colorful.MakeColor(img.At(x, y))
		if !ok {
			return
		}
		l, a, b := c.Lab()
		sl += l
		sa += a
		sb += b
		n++
	}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		add(x, bounds.Min.Y)
		if bounds.Dy() > 1 {
			add(x, bounds.Max.Y-1)
		}
	}
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		add(bounds.Min.X, y)
		if bounds.Dx() > 1 {
			add(bounds.Max.X-1, y)
		}
	}
	if n == 0 {
		return color.Black
	}
	return colorful.Lab(sl/float64(n), sa/float64(n), sb/float64(n)).Clamped()
}

// OtsuLevel returns the threshold t that best separates the histogram of
// gray into two classes (Otsu's method); foreground is every pixel > t.
// A uniform image yields its single value, so nothing is foreground.
func OtsuLevel(gray *image.Gray) uint8 {
	var hist [256]int
	bounds := gray.Bounds()
	total := 0
	maxValue := 0
	for y := 0; y < bounds.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for _, v := range row {
			hist[v]++
			if int(v) > maxValue {
				maxValue = int(v)
			}
		}
		total += bounds.Dx()
	}
	if total == 0 {
		return 255
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i * c)
	}

	var sumB, bestVar float64
	weightB := 0
	best := -1
	for t := 0; t < 255; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	if best < 0 {
		return uint8(maxValue)
	}
	return uint8(best)
}

// Binarize returns a mask where every pixel of gray above level is
// foreground.
func Binarize(gray *image.Gray, level uint8) *image.Gray {
	if level == 255 {
		return image.NewGray(image.Rect(0, 0, gray.Bounds().Dx(), gray.Bounds().Dy()))
	}
	return rebase(segment.Threshold(gray, level+1))
}

// BinarizeOtsu binarizes gray at its Otsu level.
func BinarizeOtsu(gray *image.Gray) *image.Gray {
	return Binarize(gray, OtsuLevel(gray))
}

// ForegroundRatio returns the share of mask pixels that are foreground.
func ForegroundRatio(mask *image.Gray) float64 {
	bounds := mask.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}
	count := 0
	for y := 0; y < bounds.Dy(); y++ {
		for _, v := range mask.Pix[y*mask.Stride : y*mask.Stride+bounds.Dx()] {
			if v >= 128 {
				count++
			}
		}
	}
	return float64(count) / float64(total)
}

// InvertMask swaps foreground and background.
func InvertMask(mask *image.Gray) *image.Gray {
	bounds := mask.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := mask.Pix[y*mask.Stride : y*mask.Stride+bounds.Dx()]
		dst := out.Pix[y*out.Stride : y*out.Stride+bounds.Dx()]
		for x, v := range src {
			dst[x] = 255 - v
		}
	}
	return out
}

// NormalizePolarity makes the glyph class the foreground, so glyphs are
// light on a dark background whichever way the plate was printed. It reports
// whether the mask was inverted.
//
// The class covering most of the central half of the mask is taken as the
// plate surface. The margins are left out of the vote: on a tilted crop they
// hold bodywork or rotation fill, which can outweigh the plate itself.
func NormalizePolarity(mask *image.Gray) (*image.Gray, bool) {
	if ForegroundRatio(centralHalf(mask)) > 0.5 {
		return InvertMask(mask), true
	}
	return mask, false
}

// centralHalf returns the middle half of mask in each dimension, or mask
// itself when it is too small to shrink.
func centralHalf(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	dx, dy := b.Dx()/4, b.Dy()/4
	if dx == 0 || dy == 0 {
		return mask
	}
	return mask.SubImage(image.Rect(b.Min.X+dx, b.Min.Y+dy, b.Max.X-dx, b.Max.Y-dy)).(*image.Gray)
}

// rebase reinterprets g with a zero origin without copying pixels.
func rebase(g *image.Gray) *image.Gray {
	if g.Rect.Min == (image.Point{}) {
		return g
	}
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Stride,
		Rect:   image.Rect(0, 0, g.Rect.Dx(), g.Rect.Dy()),
	}
}

// redChannel copies the red channel of a gray-valued RGBA image produced by
// a bild filter back into a zero-origin *image.Gray.
func redChannel(rgba *image.RGBA) *image.Gray {
	bounds := rgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}
