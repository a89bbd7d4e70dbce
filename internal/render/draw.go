package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/pipeline"
	"github.com/ironsheep/plate-reader/internal/segment"
)

const (
	labelHeight = 15 // basicfont.Face7x13 plus a pixel of margin each side
	cellGap     = 6
)

// DetectorColor returns a stable, saturated color for a detector name.
func DetectorColor(name string) color.RGBA {
	var h uint32
	for _, r := range name {
		h = h*31 + uint32(r)
	}
	c := colorful.Hsv(float64(h%360), 0.85, 0.95)
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// DrawCandidates copies img and outlines every candidate box in its
// detector's color, labelled with the detector name.
func DrawCandidates(img image.Image, candidates []detection.Candidate) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, c := range candidates {
		col := DetectorColor(c.Detector)
		drawRect(result, c.Rect.Box, col, 2)
		drawLabel(result, c.Rect.Box.Min.X, c.Rect.Box.Min.Y-labelHeight, c.Detector, color.RGBA{255, 255, 255, 255}, col)
	}
	return result
}

// Montage lays the character images of one plate side by side, each with
// its reading and confidence underneath.
func Montage(chars []segment.CharacterBox, reads []pipeline.CharacterRead) *image.RGBA {
	cellW, cellH := 7*6, 0 // room for a "X 100%" label
	for _, ch := range chars {
		b := ch.Image.Bounds()
		cellW = max(cellW, b.Dx())
		cellH = max(cellH, b.Dy())
	}
	cellW += cellGap

	width := max(len(chars)*cellW+cellGap, 1)
	height := cellH + labelHeight + 2*cellGap
	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), image.NewUniform(color.RGBA{200, 200, 200, 255}), image.Point{}, draw.Src)

	labels := make(map[int]pipeline.CharacterRead, len(reads))
	for _, r := range reads {
		labels[r.Index] = r
	}

	for i, ch := range chars {
		x := cellGap + i*cellW
		b := ch.Image.Bounds()
		draw.Draw(result, image.Rect(x, cellGap, x+b.Dx(), cellGap+b.Dy()), ch.Image, b.Min, draw.Src)

		text := "?"
		if r, ok := labels[ch.Index]; ok {
			text = fmt.Sprintf("%s %.0f%%", r.Text, r.Confidence*100)
		}
		drawLabel(result, x, cellGap+cellH+2, text, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255})
	}
	return result
}

// drawRect outlines r with the given stroke, clipped to img.
func drawRect(img *image.RGBA, r image.Rectangle, col color.Color, stroke int) {
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+stroke),
		image.Rect(r.Min.X, r.Max.Y-stroke, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+stroke, r.Max.Y),
		image.Rect(r.Max.X-stroke, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawLabel draws text on a filled background with its top-left corner at
// (x, y), kept inside img.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	bounds := img.Bounds()
	width := font.MeasureString(face, text).Ceil() + 2

	x = min(max(x, bounds.Min.X), bounds.Max.X-width)
	y = min(max(y, bounds.Min.Y), bounds.Max.Y-labelHeight)

	box := image.Rect(x, y, x+width, y+labelHeight).Intersect(bounds)
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x+1, y+1+face.Ascent),
	}
	d.DrawString(text)
}
