package detection

import (
	"image"
	"math"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// MorphologyName identifies the MorphologyDetector.
const MorphologyName = "morphology"

// MorphologyConfig tunes the MorphologyDetector.
type MorphologyConfig struct {
	// CloseRatio sets the horizontal closing radius as a fraction of the
	// image width.
	CloseRatio float64 `mapstructure:"close_ratio" json:"close_ratio"`

	// CloseAspect is the width over height of the closing rectangle. Glyphs
	// sit side by side, so the gaps to bridge are mostly horizontal.
	CloseAspect float64 `mapstructure:"close_aspect" json:"close_aspect"`

	OpenRadius int `mapstructure:"open_radius" json:"open_radius"`
}

// DefaultMorphologyConfig returns defaults for photographs where the plate
// spans roughly a fifth to a half of the frame width.
func DefaultMorphologyConfig() MorphologyConfig {
	return MorphologyConfig{
		CloseRatio:  0.025,
		CloseAspect: 2,
		OpenRadius:  2,
	}
}

// MorphologyDetector finds dense clusters of strong gradients, which is what
// a row of printed characters looks like. Closing merges the glyph edges of
// one plate into a single blob; opening drops thin clutter such as grille
// bars and body lines.
type MorphologyDetector struct {
	cfg   MorphologyConfig
	plate PlateConfig
}

// NewMorphologyDetector creates the detector.
func NewMorphologyDetector(cfg MorphologyConfig, plate PlateConfig) *MorphologyDetector {
	return &MorphologyDetector{cfg: cfg, plate: plate}
}

// Name implements PlateDetector.
func (d *MorphologyDetector) Name() string { return MorphologyName }

// FindPlates implements PlateDetector.
func (d *MorphologyDetector) FindPlates(img image.Image) []Candidate {
	if img.Bounds().Empty() {
		return []Candidate{}
	}
	gradient := imaging.Sobel(imaging.Grayscale(img))
	mask := imaging.BinarizeOtsu(gradient)

	rx, ry := d.closeRadii(img.Bounds().Dx())
	mask = imaging.OpenMask(imaging.CloseMask(mask, rx, ry), d.cfg.OpenRadius, d.cfg.OpenRadius)
	return locate(d.Name(), img, mask, d.plate)
}

// closeRadii scales the closing rectangle to an image width.
func (d *MorphologyDetector) closeRadii(width int) (rx, ry int) {
	rx = max(int(math.Round(d.cfg.CloseRatio*float64(width))), 1)
	ry = rx
	if d.cfg.CloseAspect > 0 {
		ry = max(int(math.Round(float64(rx)/d.cfg.CloseAspect)), 1)
	}
	return rx, ry
}
