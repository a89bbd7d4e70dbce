package detection

import (
	"image"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// ThresholdName identifies the ThresholdBlurDetector.
const ThresholdName = "threshold"

// ThresholdConfig tunes the ThresholdBlurDetector.
type ThresholdConfig struct {
	BlurRadius float64 `mapstructure:"blur_radius" json:"blur_radius"`

	// Level is the luma above which a pixel is foreground; 0 picks it per
	// image with Otsu's method.
	Level uint8 `mapstructure:"level" json:"level"`
}

// DefaultThresholdConfig returns an Otsu-driven setup.
func DefaultThresholdConfig() ThresholdConfig {
	return ThresholdConfig{BlurRadius: 2}
}

// ThresholdBlurDetector finds bright, compact regions: a blurred grayscale
// image split into light and dark, then every light component with plate
// geometry.
type ThresholdBlurDetector struct {
	cfg   ThresholdConfig
	plate PlateConfig
}

// NewThresholdBlurDetector creates the detector.
func NewThresholdBlurDetector(cfg ThresholdConfig, plate PlateConfig) *ThresholdBlurDetector {
	return &ThresholdBlurDetector{cfg: cfg, plate: plate}
}

// Name implements PlateDetector.
func (d *ThresholdBlurDetector) Name() string { return ThresholdName }

// FindPlates implements PlateDetector.
func (d *ThresholdBlurDetector) FindPlates(img image.Image) []Candidate {
	if img.Bounds().Empty() {
		return []Candidate{}
	}
	gray := imaging.Blur(imaging.Grayscale(img), d.cfg.BlurRadius)

	level := d.cfg.Level
	if level == 0 {
		level = imaging.OtsuLevel(gray)
	}
	return locate(d.Name(), img, imaging.Binarize(gray, level), d.plate)
}
