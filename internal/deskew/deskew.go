package deskew

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// Deskewer levels a plate crop so its character row runs horizontally.
//
// When no reliable angle can be estimated Deskew returns img itself,
// unchanged. Otherwise it returns a new image holding the leveled plate,
// with the corners the tilt exposed cut away; img is never modified.
type Deskewer interface {
	Deskew(img image.Image) image.Image
}

// Method names accepted by New.
const (
	MethodText  = "text"
	MethodLines = "lines"
)

// Config tunes both strategies. Angles are in degrees.
type Config struct {
	Method string `mapstructure:"method" json:"method"`

	// MinAngle is the tilt below which a plate is left alone.
	MinAngle float64 `mapstructure:"min_angle" json:"min_angle"`

	// MaxAngle is the tilt above which the estimate is distrusted.
	MaxAngle float64 `mapstructure:"max_angle" json:"max_angle"`

	// Character-like components used by the text strategy.
	MinContours    int     `mapstructure:"min_contours" json:"min_contours"`
	MinHeightRatio float64 `mapstructure:"min_height_ratio" json:"min_height_ratio"`
	MaxHeightRatio float64 `mapstructure:"max_height_ratio" json:"max_height_ratio"`
	MaxWidthRatio  float64 `mapstructure:"max_width_ratio" json:"max_width_ratio"`

	// Hough settings used by the lines strategy.
	CannyLow     int     `mapstructure:"canny_low" json:"canny_low"`
	CannyHigh    int     `mapstructure:"canny_high" json:"canny_high"`
	AngleStep    float64 `mapstructure:"angle_step" json:"angle_step"`
	MinLineRatio float64 `mapstructure:"min_line_ratio" json:"min_line_ratio"` // votes relative to width
}

// DefaultConfig returns the text strategy with conservative angle limits.
func DefaultConfig() Config {
	return Config{
		Method:         MethodText,
		MinAngle:       0.5,
		MaxAngle:       30,
		MinContours:    3,
		MinHeightRatio: 0.2,
		MaxHeightRatio: 0.95,
		MaxWidthRatio:  0.3,
		CannyLow:       40,
		CannyHigh:      100,
		AngleStep:      0.5,
		MinLineRatio:   0.4,
	}
}

// New returns the strategy selected by cfg.Method. An empty method selects
// the text strategy.
func New(cfg Config) (Deskewer, error) {
	switch cfg.Method {
	case MethodText, "":
		return NewTextDeskewer(cfg), nil
	case MethodLines:
		return NewLineDeskewer(cfg), nil
	}
	return nil, fmt.Errorf("unknown deskew method %q", cfg.Method)
}

// level rotates img by angle unless the angle is outside the trusted range,
// then trims the grown canvas back to the leveled plate.
func level(img image.Image, angle float64, ok bool, cfg Config) image.Image {
	if !ok || math.Abs(angle) < cfg.MinAngle || math.Abs(angle) > cfg.MaxAngle {
		return img
	}
	rotated := imaging.Rotate(img, angle, imaging.BorderColor(img))
	size, ok := plateSize(img.Bounds().Size(), angle)
	if !ok {
		return rotated
	}
	bounds := rotated.Bounds()
	size = image.Pt(min(size.X, bounds.Dx()), min(size.Y, bounds.Dy()))
	origin := bounds.Min.Add(bounds.Size().Sub(size).Div(2))
	return imaging.Crop(rotated, image.Rectangle{Min: origin, Max: origin.Add(size)})
}

// plateSize returns the size of the rectangle, tilted by angle degrees,
// whose bounding box is crop. ok is false when no wider-than-tall rectangle
// fits, which happens near 45 degrees or when crop is not such a box.
func plateSize(crop image.Point, angle float64) (size image.Point, ok bool) {
	theta := math.Abs(angle) * math.Pi / 180
	cos, sin, cos2 := math.Cos(theta), math.Sin(theta), math.Cos(2*theta)
	if cos2 < 1e-6 {
		return image.Point{}, false
	}
	w, h := float64(crop.X), float64(crop.Y)
	pw := (w*cos - h*sin) / cos2
	ph := (h*cos - w*sin) / cos2
	if ph < 1 || pw < ph {
		return image.Point{}, false
	}
	return image.Pt(int(math.Round(pw)), int(math.Round(ph))), true
}
