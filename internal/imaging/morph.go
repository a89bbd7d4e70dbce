package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// Blur smooths gray with a Gaussian kernel of the given radius.
func Blur(gray *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return gray
	}
	return redChannel(blur.Gaussian(gray, radius))
}

// Dilate grows foreground regions by a square of side 2*radius+1.
func Dilate(mask *image.Gray, radius float64) *image.Gray {
	r := int(math.Round(radius))
	return DilateRect(mask, r, r)
}

// Erode shrinks foreground regions by a square of side 2*radius+1.
func Erode(mask *image.Gray, radius float64) *image.Gray {
	r := int(math.Round(radius))
	return ErodeRect(mask, r, r)
}

// DilateRect grows foreground regions by a (2*rx+1) x (2*ry+1) rectangle.
// A radius of zero leaves that direction alone; both zero returns mask.
func DilateRect(mask *image.Gray, rx, ry int) *image.Gray {
	if rx <= 0 && ry <= 0 {
		return mask
	}
	return sweep(sweep(rebase(mask), rx, true, true), ry, false, true)
}

// ErodeRect shrinks foreground regions by a (2*rx+1) x (2*ry+1) rectangle.
// Pixels beyond the edge do not count, so regions touching it are not eaten
// from that side.
func ErodeRect(mask *image.Gray, rx, ry int) *image.Gray {
	if rx <= 0 && ry <= 0 {
		return mask
	}
	return sweep(sweep(rebase(mask), rx, true, false), ry, false, false)
}

// CloseMask dilates then erodes with a (2*rx+1) x (2*ry+1) rectangle,
// filling gaps narrower than it so a row of glyphs merges into one blob.
func CloseMask(mask *image.Gray, rx, ry int) *image.Gray {
	return ErodeRect(DilateRect(mask, rx, ry), rx, ry)
}

// OpenMask erodes then dilates, removing specks and strokes thinner than
// the rectangle.
func OpenMask(mask *image.Gray, rx, ry int) *image.Gray {
	return DilateRect(ErodeRect(mask, rx, ry), rx, ry)
}

// sweep runs a one-dimensional max (grow) or min filter of the given radius
// along every row or column of a zero-origin mask. A running count of
// foreground pixels makes each pass linear in the image size whatever the
// radius.
func sweep(mask *image.Gray, radius int, horizontal, grow bool) *image.Gray {
	if radius <= 0 {
		return mask
	}
	width, height := mask.Rect.Dx(), mask.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	lines, length := height, width
	if !horizontal {
		lines, length = width, height
	}
	index := func(stride, line, i int) int {
		if horizontal {
			return line*stride + i
		}
		return i*stride + line
	}

	prefix := make([]int, length+1)
	for line := 0; line < lines; line++ {
		for i := 0; i < length; i++ {
			prefix[i+1] = prefix[i]
			if mask.Pix[index(mask.Stride, line, i)] >= 128 {
				prefix[i+1]++
			}
		}
		for i := 0; i < length; i++ {
			lo, hi := max(i-radius, 0), min(i+radius+1, length)
			count := prefix[hi] - prefix[lo]
			if (grow && count > 0) || (!grow && count == hi-lo) {
				out.Pix[index(out.Stride, line, i)] = 255
			}
		}
	}
	return out
}
