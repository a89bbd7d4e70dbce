package imaging

import (
	"image"
	"math"
)

// Canny returns a binary edge mask of gray.
//
// Parameters:
//   - gray: Source luma image.
//   - thresholdLow: Gradient magnitude (0-255 scale) below which a pixel is
//     never an edge. Typical value: 50.
//   - thresholdHigh: Gradient magnitude at or above which a pixel is always
//     an edge. Typical value: 150.
//   - blurRadius: Gaussian radius applied before differentiation; 0 skips
//     smoothing.
//
// # Algorithm
//
//  1. Gaussian blur to suppress sensor noise
//  2. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  3. Non-maximum suppression thins ridges to one pixel along the gradient
//  4. Hysteresis: strong pixels seed edges, weak pixels join when they are
//     8-connected to a seed through other weak pixels
//
// A faint plate border survives where it touches a strong corner, while
// isolated weak texture in the background does not.
func Canny(gray *image.Gray, thresholdLow, thresholdHigh int, blurRadius float64) *image.Gray {
	smoothed := Blur(gray, blurRadius)
	bounds := smoothed.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width < 3 || height < 3 {
		return out
	}

	magnitude, direction := gradients(smoothed)

	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	low, high := float64(thresholdLow), float64(thresholdHigh)
	stack := make([]int, 0, 256)
	for i, v := range suppressed {
		if v >= high && out.Pix[i/width*out.Stride+i%width] == 0 {
			out.Pix[i/width*out.Stride+i%width] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jx, jy := j%width, j/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := jx+dx, jy+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					k := ny*width + nx
					if suppressed[k] >= low && out.Pix[ny*out.Stride+nx] == 0 {
						out.Pix[ny*out.Stride+nx] = 255
						stack = append(stack, k)
					}
				}
			}
		}
	}

	return out
}

// Sobel returns the gradient magnitude of gray scaled to 0-255.
func Sobel(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out
	}
	magnitude, _ := gradients(gray)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Pix[y*out.Stride+x] = uint8(math.Min(magnitude[y*width+x], 255))
		}
	}
	return out
}

// gradients computes per-pixel Sobel magnitude and direction with edge
// replication at the border.
func gradients(gray *image.Gray) (magnitude, direction []float64) {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	at := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[y*gray.Stride+x])
	}

	magnitude = make([]float64, width*height)
	direction = make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			// Sobel on 8-bit input peaks at 4*255 per axis; scale to 0-255.
			magnitude[y*width+x] = math.Sqrt(gx*gx+gy*gy) / 4
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
