package geometry

import (
	"image"
	"math"
	"sort"
)

// Rect is a detected region: the axis-aligned box that encloses it plus the
// side lengths and tilt of the rotated rectangle fitted to its pixels.
type Rect struct {
	// Box is the enclosing axis-aligned box in the coordinate space of the
	// image the region was found in.
	Box image.Rectangle `json:"box"`

	// Width is the length of the side closest to horizontal.
	Width float64 `json:"width"`

	// Height is the length of the side closest to vertical.
	Height float64 `json:"height"`

	// Angle is the tilt of the Width side from horizontal, in (-45, 45].
	Angle float64 `json:"angle"`
}

// Aspect returns Width/Height, or 0 for a degenerate rectangle.
func (r Rect) Aspect() float64 {
	if r.Height <= 0 {
		return 0
	}
	return r.Width / r.Height
}

// Area returns the area of the rotated rectangle.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Translate returns r moved by pt.
func (r Rect) Translate(pt image.Point) Rect {
	r.Box = r.Box.Add(pt)
	return r
}

// BoundingBox returns the smallest box containing every point.
func BoundingBox(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
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
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// FitRect fits a rotated rectangle to a point set.
//
// The orientation is the principal axis of the points (second-order central
// moments); the side lengths are the extents of the points projected on that
// axis and its normal. For the boundary of a rectangle this recovers the
// rectangle exactly, rotated or not.
func FitRect(points []image.Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	n := float64(len(points))
	var mx, my float64
	for _, p := range points {
		mx += float64(p.X)
		my += float64(p.Y)
	}
	mx /= n
	my /= n

	var sxx, syy, sxy float64
	for _, p := range points {
		dx := float64(p.X) - mx
		dy := float64(p.Y) - my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)

	cos, sin := math.Cos(theta), math.Sin(theta)
	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		dx := float64(p.X) - mx
		dy := float64(p.Y) - my
		u := dx*cos + dy*sin
		v := -dx*sin + dy*cos
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	width := maxU - minU + 1
	height := maxV - minV + 1
	angle := theta * 180 / math.Pi
	if angle > 45 {
		angle -= 90
		width, height = height, width
	} else if angle <= -45 {
		angle += 90
		width, height = height, width
	}

	return Rect{
		Box:    BoundingBox(points),
		Width:  width,
		Height: height,
		Angle:  angle,
	}
}

// Center returns the center of a box.
func Center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2
}

// BoxArea returns the pixel area of a box.
func BoxArea(r image.Rectangle) int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// OverlapRatio returns the intersection area of a and b divided by the area
// of the smaller box: 1 when one box contains the other, 0 when disjoint.
func OverlapRatio(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	smaller := BoxArea(a)
	if other := BoxArea(b); other < smaller {
		smaller = other
	}
	if smaller == 0 {
		return 0
	}
	return float64(BoxArea(inter)) / float64(smaller)
}

// SuppressOverlaps returns the indices of the boxes that survive overlap
// suppression, largest first.
//
// Boxes are visited by descending area (ties broken top-to-bottom, then
// left-to-right, then by index). A box is dropped when its OverlapRatio with
// any box already kept reaches threshold. Running the suppression again on
// the surviving boxes keeps all of them in the same order.
func SuppressOverlaps(boxes []image.Rectangle, threshold float64) []int {
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := boxes[order[i]], boxes[order[j]]
		if aa, ba := BoxArea(a), BoxArea(b); aa != ba {
			return aa > ba
		}
		if a.Min.Y != b.Min.Y {
			return a.Min.Y < b.Min.Y
		}
		return a.Min.X < b.Min.X
	})

	kept := make([]int, 0, len(boxes))
	for _, idx := range order {
		duplicate := false
		for _, k := range kept {
			if OverlapRatio(boxes[idx], boxes[k]) >= threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, idx)
		}
	}
	return kept
}

// LeftToRight orders boxes by left edge. Boxes sharing a left edge are
// ordered by horizontal center, so a narrow glyph comes before a wide one
// that starts in the same column, and then by top edge.
func LeftToRight(a, b image.Rectangle) bool {
	if a.Min.X != b.Min.X {
		return a.Min.X < b.Min.X
	}
	if a.Max.X != b.Max.X {
		return a.Max.X < b.Max.X
	}
	return a.Min.Y < b.Min.Y
}

// FitLine fits y = slope*x + intercept through the points by least squares.
// ok is false for fewer than two points or when every x is the same.
func FitLine(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return 0, 0, false
	}
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return 0, 0, false
	}
	slope = sxy / sxx
	return slope, my - slope*mx, true
}

// ReachesCorner reports whether box touches two adjacent sides of bounds.
// A region spilling into a corner of a crop is background showing past a
// tilted plate, not a glyph.
func ReachesCorner(box, bounds image.Rectangle) bool {
	vertical := box.Min.Y <= bounds.Min.Y || box.Max.Y >= bounds.Max.Y
	horizontal := box.Min.X <= bounds.Min.X || box.Max.X >= bounds.Max.X
	return vertical && horizontal
}
