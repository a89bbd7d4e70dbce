package geometry

import (
	"image"
	"image/color"
	"math"
	"reflect"
	"sort"
	"testing"
)

// createMask creates a black mask with the given white boxes filled in
func createMask(width, height int, boxes ...image.Rectangle) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for _, b := range boxes {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				mask.SetGray(x, y, color.Gray{255})
			}
		}
	}
	return mask
}

// rectBoundary returns the boundary pixels of a rectangle rotated by angle
// degrees around its center
func rectBoundary(cx, cy, w, h, angle float64) []image.Point {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	seen := map[image.Point]bool{}
	points := make([]image.Point, 0)
	add := func(u, v float64) {
		p := image.Point{
			X: int(math.Round(cx + u*cos - v*sin)),
			Y: int(math.Round(cy + u*sin + v*cos)),
		}
		if !seen[p] {
			seen[p] = true
			points = append(points, p)
		}
	}
	for u := -w / 2; u <= w/2; u += 0.5 {
		add(u, -h/2)
		add(u, h/2)
	}
	for v := -h / 2; v <= h/2; v += 0.5 {
		add(-w/2, v)
		add(w/2, v)
	}
	return points
}

func TestFindContours_SeparateBlobs(t *testing.T) {
	mask := createMask(100, 50,
		image.Rect(10, 10, 20, 40),
		image.Rect(30, 10, 40, 40),
		image.Rect(60, 5, 90, 15),
	)

	contours := FindContours(mask)
	if len(contours) != 3 {
		t.Fatalf("expected 3 contours, got %d", len(contours))
	}

	want := []image.Rectangle{
		image.Rect(60, 5, 90, 15),
		image.Rect(10, 10, 20, 40),
		image.Rect(30, 10, 40, 40),
	}
	for i, c := range contours {
		if c.Box != want[i] {
			t.Errorf("contour %d box: got %v, want %v", i, c.Box, want[i])
		}
		if c.Area != want[i].Dx()*want[i].Dy() {
			t.Errorf("contour %d area: got %d, want %d", i, c.Area, want[i].Dx()*want[i].Dy())
		}
	}
}

func TestFindContours_RingIsOneComponent(t *testing.T) {
	mask := createMask(60, 60, image.Rect(10, 10, 50, 50))
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			mask.SetGray(x, y, color.Gray{0})
		}
	}

	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("expected the ring to be 1 contour, got %d", len(contours))
	}
	// Outer and inner boundaries are both boundary pixels.
	if got, want := len(contours[0].Points), 4*39+4*20; got != want {
		t.Errorf("boundary points: got %d, want %d", got, want)
	}
}

func TestFindContours_DiagonalConnectivity(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := 0; i < 10; i++ {
		mask.SetGray(i, i, color.Gray{255})
	}

	contours := FindContours(mask)
	if len(contours) != 1 {
		t.Fatalf("8-connected diagonal should be 1 contour, got %d", len(contours))
	}
}

func TestFindContours_SubImageOffset(t *testing.T) {
	mask := createMask(100, 100, image.Rect(50, 60, 70, 70))
	sub := mask.SubImage(image.Rect(40, 40, 100, 100)).(*image.Gray)

	contours := FindContours(sub)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	if want := image.Rect(50, 60, 70, 70); contours[0].Box != want {
		t.Errorf("box: got %v, want %v", contours[0].Box, want)
	}
}

func TestFindContours_Empty(t *testing.T) {
	if got := FindContours(image.NewGray(image.Rect(0, 0, 30, 30))); len(got) != 0 {
		t.Errorf("blank mask: expected no contours, got %d", len(got))
	}
	if got := FindContours(image.NewGray(image.Rectangle{})); got != nil {
		t.Errorf("zero-size mask: expected nil, got %v", got)
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name          string
		w, h, angle   float64
		wantAspectMin float64
		wantAspectMax float64
	}{
		{"axis aligned wide", 120, 30, 0, 3.8, 4.2},
		{"axis aligned tall", 20, 60, 0, 0.3, 0.4},
		{"tilted clockwise", 120, 30, 10, 3.7, 4.3},
		{"tilted counter-clockwise", 120, 30, -15, 3.7, 4.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FitRect(rectBoundary(100, 100, tt.w, tt.h, tt.angle))
			if math.Abs(r.Angle-tt.angle) > 1.5 {
				t.Errorf("angle: got %.2f, want %.2f", r.Angle, tt.angle)
			}
			if a := r.Aspect(); a < tt.wantAspectMin || a > tt.wantAspectMax {
				t.Errorf("aspect: got %.2f, want [%.2f, %.2f]", a, tt.wantAspectMin, tt.wantAspectMax)
			}
		})
	}
}

func TestFitRect_Empty(t *testing.T) {
	r := FitRect(nil)
	if r.Aspect() != 0 || r.Area() != 0 {
		t.Errorf("empty fit should be zero, got %+v", r)
	}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Rectangle
		want float64
	}{
		{"disjoint", image.Rect(0, 0, 10, 10), image.Rect(20, 20, 30, 30), 0},
		{"contained", image.Rect(0, 0, 100, 100), image.Rect(10, 10, 20, 20), 1},
		{"half", image.Rect(0, 0, 10, 10), image.Rect(5, 0, 15, 10), 0.5},
		{"touching edges", image.Rect(0, 0, 10, 10), image.Rect(10, 0, 20, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapRatio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuppressOverlaps_KeepsLargest(t *testing.T) {
	boxes := []image.Rectangle{
		image.Rect(12, 12, 98, 38), // inner duplicate
		image.Rect(10, 10, 100, 40),
		image.Rect(200, 10, 260, 30),
	}

	kept := SuppressOverlaps(boxes, 0.8)
	if want := []int{1, 2}; !reflect.DeepEqual(kept, want) {
		t.Errorf("kept: got %v, want %v", kept, want)
	}
}

func TestSuppressOverlaps_Idempotent(t *testing.T) {
	boxes := []image.Rectangle{
		image.Rect(0, 0, 50, 20),
		image.Rect(5, 2, 45, 18),
		image.Rect(40, 0, 90, 20),
		image.Rect(100, 100, 160, 120),
		image.Rect(100, 100, 160, 120),
		image.Rect(30, 5, 60, 15),
	}

	first := SuppressOverlaps(boxes, 0.6)
	survivors := make([]image.Rectangle, len(first))
	for i, idx := range first {
		survivors[i] = boxes[idx]
	}

	second := SuppressOverlaps(survivors, 0.6)
	if len(second) != len(survivors) {
		t.Fatalf("second pass dropped boxes: %d -> %d", len(survivors), len(second))
	}
	for i, idx := range second {
		if idx != i {
			t.Errorf("second pass reordered: position %d holds %d", i, idx)
		}
	}
}

func TestPlateFilter_Accept(t *testing.T) {
	f := DefaultPlateFilter()
	imageArea := 640 * 480

	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"plate", Rect{Width: 160, Height: 40}, true},
		{"square", Rect{Width: 60, Height: 60}, false},
		{"line", Rect{Width: 300, Height: 10}, false},
		{"speck", Rect{Width: 8, Height: 2}, false},
		{"whole frame", Rect{Width: 620, Height: 470}, false},
		{"too skewed", Rect{Width: 160, Height: 40, Angle: 40}, false},
		{"mild skew", Rect{Width: 160, Height: 40, Angle: -12}, true},
		{"degenerate", Rect{Width: 160}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Accept(tt.r, imageArea); got != tt.want {
				t.Errorf("Accept(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestFitLine(t *testing.T) {
	slope, intercept, ok := FitLine([]float64{0, 10, 20, 30}, []float64{5, 7, 9, 11})
	if !ok {
		t.Fatal("expected a fit")
	}
	if math.Abs(slope-0.2) > 1e-9 || math.Abs(intercept-5) > 1e-9 {
		t.Errorf("got slope=%v intercept=%v, want 0.2 and 5", slope, intercept)
	}

	if _, _, ok := FitLine([]float64{3, 3}, []float64{1, 9}); ok {
		t.Error("vertical points should not fit")
	}
	if _, _, ok := FitLine([]float64{1}, []float64{1}); ok {
		t.Error("single point should not fit")
	}
}

func TestLeftToRight(t *testing.T) {
	want := []image.Rectangle{
		image.Rect(2, 5, 8, 30),
		image.Rect(10, 20, 14, 30),
		image.Rect(10, 5, 20, 30),
		image.Rect(10, 8, 20, 30),
		image.Rect(25, 0, 30, 30),
	}
	orders := [][]int{{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 4, 1, 3, 0}, {3, 1, 4, 0, 2}}

	for _, order := range orders {
		boxes := make([]image.Rectangle, len(order))
		for i, j := range order {
			boxes[i] = want[j]
		}
		sort.Slice(boxes, func(i, j int) bool { return LeftToRight(boxes[i], boxes[j]) })
		if !reflect.DeepEqual(boxes, want) {
			t.Errorf("order %v: got %v, want %v", order, boxes, want)
		}
	}
}

func TestReachesCorner(t *testing.T) {
	bounds := image.Rect(0, 0, 165, 65)
	tests := []struct {
		name string
		box  image.Rectangle
		want bool
	}{
		{"top right wedge", image.Rect(160, 0, 165, 45), true},
		{"bottom left wedge", image.Rect(0, 19, 5, 65), true},
		{"glyph", image.Rect(20, 10, 35, 55), false},
		{"touches top only", image.Rect(20, 0, 35, 55), false},
		{"touches left only", image.Rect(0, 10, 12, 55), false},
		{"spans the height", image.Rect(40, 0, 50, 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReachesCorner(tt.box, bounds); got != tt.want {
				t.Errorf("ReachesCorner(%v): got %v, want %v", tt.box, got, tt.want)
			}
		})
	}
}

func TestReachesCorner_Offset(t *testing.T) {
	bounds := image.Rect(100, 50, 200, 90)
	if !ReachesCorner(image.Rect(195, 50, 200, 60), bounds) {
		t.Error("box in the top right corner should reach it")
	}
	if !ReachesCorner(image.Rect(0, 0, 5, 10), bounds) {
		t.Error("box past the top left corner should count as reaching it")
	}
}
