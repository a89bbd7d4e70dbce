package geometry

import "image"

// Contour is one 8-connected component of foreground pixels.
type Contour struct {
	// Points are the component's boundary pixels: foreground pixels with at
	// least one 4-neighbor that is background or outside the mask.
	Points []image.Point

	// Box encloses the whole component.
	Box image.Rectangle

	// Area is the number of foreground pixels in the component.
	Area int
}

// Rect fits a rotated rectangle to the contour's boundary.
func (c Contour) Rect() Rect {
	r := FitRect(c.Points)
	r.Box = c.Box
	return r
}

// FindContours labels the 8-connected foreground components of mask and
// returns their outer contours in scan order of their first pixel.
//
// A pixel is foreground when its value is at least 128. Points are reported
// in the mask's own coordinate space.
func FindContours(mask *image.Gray) []Contour {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	foreground := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return false
		}
		return mask.Pix[y*mask.Stride+x] >= 128
	}

	visited := make([]bool, width*height)
	contours := make([]Contour, 0)
	stack := make([]image.Point, 0, 64)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !foreground(x, y) {
				continue
			}

			var c Contour
			minX, minY, maxX, maxY := x, y, x, y
			visited[y*width+x] = true
			stack = append(stack[:0], image.Point{X: x, Y: y})

			// Iterative fill; recursion would overflow on plate-sized blobs.
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				c.Area++

				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}

				if !foreground(p.X-1, p.Y) || !foreground(p.X+1, p.Y) ||
					!foreground(p.X, p.Y-1) || !foreground(p.X, p.Y+1) {
					c.Points = append(c.Points, p.Add(bounds.Min))
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						if !foreground(nx, ny) || visited[ny*width+nx] {
							continue
						}
						visited[ny*width+nx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}

			c.Box = image.Rect(minX, minY, maxX+1, maxY+1).Add(bounds.Min)
			contours = append(contours, c)
		}
	}

	return contours
}
