package deskew

import (
	"image"
	"math"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// LineDeskewer estimates the tilt from the strongest near-horizontal
// straight line in the crop, usually the top or bottom plate border.
type LineDeskewer struct {
	cfg Config
}

// NewLineDeskewer creates the strategy.
func NewLineDeskewer(cfg Config) *LineDeskewer {
	return &LineDeskewer{cfg: cfg}
}

// Deskew implements Deskewer.
func (d *LineDeskewer) Deskew(img image.Image) image.Image {
	angle, ok := d.Angle(img)
	return level(img, angle, ok, d.cfg)
}

// Angle returns the counter-clockwise rotation in degrees that makes the
// strongest near-horizontal line level. ok is false when no line gathers
// enough votes.
//
// # Algorithm
//
// Edge pixels vote in a Hough accumulator over rho = x*cos(t) + y*sin(t).
// Only normals within MaxAngle of vertical are searched, so the accumulator
// holds near-horizontal lines alone. The peak's normal angle minus 90
// degrees is the line's tilt below horizontal.
func (d *LineDeskewer) Angle(img image.Image) (angle float64, ok bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 || d.cfg.AngleStep <= 0 {
		return 0, false
	}

	edges := imaging.Canny(imaging.Grayscale(img), d.cfg.CannyLow, d.cfg.CannyHigh, 1)

	maxDist := int(math.Ceil(math.Sqrt(float64(width*width + height*height))))
	numAngles := int(2*d.cfg.MaxAngle/d.cfg.AngleStep) + 1
	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for i := range cosT {
		theta := (90 - d.cfg.MaxAngle + float64(i)*d.cfg.AngleStep) * math.Pi / 180
		cosT[i] = math.Cos(theta)
		sinT[i] = math.Sin(theta)
	}

	accumulator := make([][]int, maxDist*2+1)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.Pix[y*edges.Stride+x] == 0 {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				rhoIdx := int(math.Round(rho)) + maxDist
				if rhoIdx >= 0 && rhoIdx < len(accumulator) {
					accumulator[rhoIdx][t]++
				}
			}
		}
	}

	bestVotes, bestTheta := 0, 0
	for rhoIdx := range accumulator {
		for t, votes := range accumulator[rhoIdx] {
			if votes > bestVotes {
				bestVotes = votes
				bestTheta = t
			}
		}
	}
	if float64(bestVotes) < d.cfg.MinLineRatio*float64(width) {
		return 0, false
	}
	return -d.cfg.MaxAngle + float64(bestTheta)*d.cfg.AngleStep, true
}
