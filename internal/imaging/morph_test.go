package imaging

import (
	"image"
	"testing"
	"time"
)

func TestBlur_ZeroRadius(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	if Blur(img, 0) != img {
		t.Error("zero radius should return the input")
	}
}

func TestBlur_Smooths(t *testing.T) {
	img := createTwoToneImage(30, 30, image.Rect(15, 0, 30, 30), 0, 255)

	blurred := Blur(img, 2)
	v := blurred.GrayAt(15, 15).Y
	if v == 0 || v == 255 {
		t.Errorf("step should be smoothed, got %d at the boundary", v)
	}
	if blurred.GrayAt(2, 15).Y != 0 {
		t.Error("far background should stay dark")
	}
}

func TestSobel(t *testing.T) {
	uniform := createTwoToneImage(20, 20, image.Rectangle{}, 90, 90)
	if ForegroundRatio(Sobel(uniform)) != 0 {
		t.Error("uniform image should have no gradient")
	}

	step := createTwoToneImage(20, 20, image.Rect(10, 0, 20, 20), 0, 255)
	grad := Sobel(step)
	if grad.GrayAt(10, 10).Y < 128 {
		t.Errorf("step should produce a strong gradient, got %d", grad.GrayAt(10, 10).Y)
	}
	if grad.GrayAt(2, 10).Y != 0 {
		t.Error("flat region should have no gradient")
	}
}

func TestDilateErode(t *testing.T) {
	mask := createTwoToneImage(21, 21, image.Rect(10, 10, 11, 11), 0, 255)

	grown := Dilate(mask, 2)
	if grown.GrayAt(11, 10).Y != 255 || grown.GrayAt(10, 11).Y != 255 {
		t.Error("dilation should grow the point")
	}
	if grown.GrayAt(0, 0).Y != 0 {
		t.Error("dilation should not reach the corner")
	}

	if Erode(mask, 1).GrayAt(10, 10).Y != 0 {
		t.Error("erosion should remove an isolated point")
	}
	if Dilate(mask, 0) != mask || Erode(mask, 0) != mask {
		t.Error("zero radius should return the input")
	}
}

func TestClose_FillsGap(t *testing.T) {
	mask := createTwoToneImage(40, 30, image.Rect(6, 8, 16, 22), 0, 255)
	for y := 8; y < 22; y++ {
		for x := 18; x < 28; x++ {
			mask.Pix[y*mask.Stride+x] = 255
		}
	}

	closed := CloseMask(mask, 3, 3)
	if closed.GrayAt(16, 15).Y != 255 || closed.GrayAt(17, 15).Y != 255 {
		t.Error("closing should bridge the two pixel gap")
	}
	if closed.GrayAt(1, 1).Y != 0 {
		t.Error("closing should not fill the far background")
	}
}

func TestOpen_RemovesSpeck(t *testing.T) {
	mask := createTwoToneImage(40, 30, image.Rect(10, 10, 22, 22), 0, 255)
	mask.Pix[3*mask.Stride+3] = 255

	opened := OpenMask(mask, 1, 1)
	if opened.GrayAt(3, 3).Y != 0 {
		t.Error("opening should remove the speck")
	}
	if opened.GrayAt(16, 16).Y != 255 {
		t.Error("opening should keep the block")
	}
}

func TestDilateRect_Directions(t *testing.T) {
	mask := createTwoToneImage(21, 21, image.Rect(10, 10, 11, 11), 0, 255)

	wide := DilateRect(mask, 4, 0)
	if wide.GrayAt(6, 10).Y != 255 || wide.GrayAt(14, 10).Y != 255 {
		t.Error("horizontal dilation should reach four pixels either side")
	}
	if wide.GrayAt(5, 10).Y != 0 || wide.GrayAt(10, 9).Y != 0 {
		t.Error("horizontal dilation should not grow further or vertically")
	}
	if got := ForegroundRatio(wide); got != 9.0/441.0 {
		t.Errorf("foreground ratio: got %v, want a 9x1 bar", got)
	}

	if ErodeRect(wide, 4, 0).GrayAt(10, 10).Y != 255 {
		t.Error("eroding by the same rectangle should keep the center")
	}
	if ErodeRect(wide, 5, 0).GrayAt(10, 10).Y != 0 {
		t.Error("a longer rectangle should erase the bar")
	}
}

func TestErodeRect_KeepsEdgeRegions(t *testing.T) {
	mask := createTwoToneImage(20, 20, image.Rect(0, 0, 6, 20), 0, 255)

	eroded := ErodeRect(mask, 2, 2)
	if eroded.GrayAt(0, 0).Y != 255 {
		t.Error("a region touching the edge should not shrink from that side")
	}
	if eroded.GrayAt(4, 10).Y != 0 || eroded.GrayAt(3, 10).Y != 255 {
		t.Error("the inner side should shrink by the radius")
	}
}

func TestCloseMask_OffsetInput(t *testing.T) {
	mask := createTwoToneImage(40, 20, image.Rect(20, 5, 40, 15), 0, 255)
	sub := mask.SubImage(image.Rect(20, 0, 40, 20)).(*image.Gray)

	closed := CloseMask(sub, 2, 2)
	if closed.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds: got %v, want zero origin", closed.Bounds())
	}
	if closed.GrayAt(10, 10).Y != 255 || closed.GrayAt(10, 2).Y != 0 {
		t.Error("closing should keep the block and its surroundings")
	}
}

func TestCloseMask_PhotoSize(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	mask := createTwoToneImage(1280, 960, image.Rect(400, 500, 880, 650), 0, 255)

	start := time.Now()
	CloseMask(mask, 32, 11)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("closing a 1280x960 mask took %v", elapsed)
	}
}
