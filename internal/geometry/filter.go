package geometry

import "math"

// PlateFilter accepts regions shaped like a license plate: a wide
// rectangle, neither near-square nor near-line, of plausible size relative to
// the photograph and not tilted too far.
type PlateFilter struct {
	MinAspect    float64 `mapstructure:"min_aspect" json:"min_aspect"`
	MaxAspect    float64 `mapstructure:"max_aspect" json:"max_aspect"`
	MinAreaRatio float64 `mapstructure:"min_area_ratio" json:"min_area_ratio"`
	MaxAreaRatio float64 `mapstructure:"max_area_ratio" json:"max_area_ratio"`
	MaxSkew      float64 `mapstructure:"max_skew" json:"max_skew"` // degrees
}

// DefaultPlateFilter returns bounds that cover single-row plates from
// European (about 4.7:1) to North American (about 2:1) formats.
func DefaultPlateFilter() PlateFilter {
	return PlateFilter{
		MinAspect:    1.8,
		MaxAspect:    6.5,
		MinAreaRatio: 0.002,
		MaxAreaRatio: 0.6,
		MaxSkew:      25,
	}
}

// Accept reports whether r passes the filter for a source image of
// imageArea pixels.
func (f PlateFilter) Accept(r Rect, imageArea int) bool {
	if imageArea <= 0 || r.Height <= 0 {
		return false
	}
	aspect := r.Aspect()
	if aspect < f.MinAspect || aspect > f.MaxAspect {
		return false
	}
	ratio := r.Area() / float64(imageArea)
	if ratio < f.MinAreaRatio || ratio > f.MaxAreaRatio {
		return false
	}
	return math.Abs(r.Angle) <= f.MaxSkew
}
