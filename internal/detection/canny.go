package detection

import (
	"image"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// CannyName identifies the CannyDetector.
const CannyName = "canny"

// CannyConfig tunes the CannyDetector.
type CannyConfig struct {
	Low        int     `mapstructure:"low" json:"low"`
	High       int     `mapstructure:"high" json:"high"`
	BlurRadius float64 `mapstructure:"blur_radius" json:"blur_radius"`

	// DilateRadius thickens edges so a plate border broken by glare still
	// closes; 0 disables it.
	DilateRadius float64 `mapstructure:"dilate_radius" json:"dilate_radius"`
}

// DefaultCannyConfig returns thresholds suited to daylight photographs.
func DefaultCannyConfig() CannyConfig {
	return CannyConfig{
		Low:          40,
		High:         100,
		BlurRadius:   1,
		DilateRadius: 1,
	}
}

// CannyDetector finds closed edge outlines with plate geometry. It works on
// plates whose surface is close in brightness to the car body, where a
// global threshold merges the two.
type CannyDetector struct {
	cfg   CannyConfig
	plate PlateConfig
}

// NewCannyDetector creates the detector.
func NewCannyDetector(cfg CannyConfig, plate PlateConfig) *CannyDetector {
	return &CannyDetector{cfg: cfg, plate: plate}
}

// Name implements PlateDetector.
func (d *CannyDetector) Name() string { return CannyName }

// FindPlates implements PlateDetector.
func (d *CannyDetector) FindPlates(img image.Image) []Candidate {
	if img.Bounds().Empty() {
		return []Candidate{}
	}
	edges := imaging.Canny(imaging.Grayscale(img), d.cfg.Low, d.cfg.High, d.cfg.BlurRadius)
	edges = imaging.Dilate(edges, d.cfg.DilateRadius)
	return locate(d.Name(), img, edges, d.plate)
}
