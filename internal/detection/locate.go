package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/plate-reader/internal/geometry"
	"github.com/ironsheep/plate-reader/internal/imaging"
)

// ErrUnknownDetector is returned by New for a name no strategy answers to.
var ErrUnknownDetector = errors.New("unknown detector")

// Candidate is one plate-like region found in a source image.
type Candidate struct {
	// Plate is a copy of Rect.Box cut from the source.
	Plate image.Image

	// Rect is in the source image's coordinate space.
	Rect geometry.Rect

	// Detector names the strategy that produced the candidate.
	Detector string
}

// PlateDetector finds plate-like regions in a photograph.
//
// FindPlates never fails: a photograph with no plate yields an empty slice.
// Implementations must not modify img.
type PlateDetector interface {
	Name() string
	FindPlates(img image.Image) []Candidate
}

// PlateConfig holds the rules every detector applies to its raw regions.
type PlateConfig struct {
	Filter geometry.PlateFilter `mapstructure:",squash"`

	// OverlapRatio is the intersection over the smaller box at which the
	// smaller of two regions is dropped.
	OverlapRatio float64 `mapstructure:"overlap_ratio" json:"overlap_ratio"`
}

// DefaultPlateConfig returns the default plate geometry rules.
func DefaultPlateConfig() PlateConfig {
	return PlateConfig{
		Filter:       geometry.DefaultPlateFilter(),
		OverlapRatio: 0.5,
	}
}

// Config aggregates the settings of all detection strategies.
type Config struct {
	Plate      PlateConfig      `mapstructure:"plate"`
	Threshold  ThresholdConfig  `mapstructure:"threshold"`
	Canny      CannyConfig      `mapstructure:"canny"`
	Morphology MorphologyConfig `mapstructure:"morphology"`
}

// DefaultConfig returns defaults for every strategy.
func DefaultConfig() Config {
	return Config{
		Plate:      DefaultPlateConfig(),
		Threshold:  DefaultThresholdConfig(),
		Canny:      DefaultCannyConfig(),
		Morphology: DefaultMorphologyConfig(),
	}
}

// Names lists the available strategies in their default run order.
func Names() []string {
	return []string{ThresholdName, CannyName, MorphologyName}
}

// New builds the detector registered under name.
func New(name string, cfg Config) (PlateDetector, error) {
	switch name {
	case ThresholdName:
		return NewThresholdBlurDetector(cfg.Threshold, cfg.Plate), nil
	case CannyName:
		return NewCannyDetector(cfg.Canny, cfg.Plate), nil
	case MorphologyName:
		return NewMorphologyDetector(cfg.Morphology, cfg.Plate), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
}

// NewSet builds one detector per name, keeping the given order.
func NewSet(names []string, cfg Config) ([]PlateDetector, error) {
	detectors := make([]PlateDetector, 0, len(names))
	for _, name := range names {
		d, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		detectors = append(detectors, d)
	}
	return detectors, nil
}

// locate turns the foreground components of mask into candidates. mask
// covers img with a zero origin.
func locate(name string, img image.Image, mask *image.Gray, plate PlateConfig) []Candidate {
	bounds := img.Bounds()
	imageArea := bounds.Dx() * bounds.Dy()

	rects := make([]geometry.Rect, 0)
	for _, c := range geometry.FindContours(mask) {
		// Specks cannot reach the minimum area; skip the fit.
		if float64(geometry.BoxArea(c.Box)) < plate.Filter.MinAreaRatio*float64(imageArea) {
			continue
		}
		r := c.Rect()
		if !plate.Filter.Accept(r, imageArea) {
			continue
		}
		rects = append(rects, r.Translate(bounds.Min))
	}

	boxes := make([]image.Rectangle, len(rects))
	for i, r := range rects {
		boxes[i] = r.Box
	}

	keep := geometry.SuppressOverlaps(boxes, plate.OverlapRatio)
	candidates := make([]Candidate, 0, len(keep))
	for _, i := range keep {
		candidates = append(candidates, Candidate{
			Plate:    imaging.Crop(img, rects[i].Box),
			Rect:     rects[i],
			Detector: name,
		})
	}
	return candidates
}
