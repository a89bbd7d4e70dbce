package segment

import (
	"image"
	"image/color"
	"sort"

	"github.com/ironsheep/plate-reader/internal/geometry"
	"github.com/ironsheep/plate-reader/internal/imaging"
)

// CharacterBox is one isolated character of a plate.
type CharacterBox struct {
	// Image is the character dark on light with Config.Padding pixels of
	// margin, ready for single-character OCR.
	Image image.Image

	// Index is the left-to-right position, starting at 0.
	Index int

	// Box is in the plate image's coordinate space.
	Box image.Rectangle
}

// Config bounds the size of a character relative to the plate.
type Config struct {
	MinHeightRatio float64 `mapstructure:"min_height_ratio" json:"min_height_ratio"`
	MaxHeightRatio float64 `mapstructure:"max_height_ratio" json:"max_height_ratio"`
	MaxWidthRatio  float64 `mapstructure:"max_width_ratio" json:"max_width_ratio"`
	MinArea        int     `mapstructure:"min_area" json:"min_area"` // foreground pixels
	Padding        int     `mapstructure:"padding" json:"padding"`
}

// DefaultConfig suits single-row plates cropped close to their border.
func DefaultConfig() Config {
	return Config{
		MinHeightRatio: 0.3,
		MaxHeightRatio: 0.95,
		MaxWidthRatio:  0.25,
		MinArea:        15,
		Padding:        4,
	}
}

// Segmenter splits a plate into character images.
type Segmenter struct {
	cfg Config
}

// New creates a Segmenter.
func New(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment returns the characters of img ordered left to right. A plate with
// no character-sized shapes yields an empty slice. Shapes running into a
// corner of img are background around a tilted plate and are skipped.
func (s *Segmenter) Segment(img image.Image) []CharacterBox {
	bounds := img.Bounds()
	if bounds.Empty() {
		return []CharacterBox{}
	}
	// The polarity vote can lose on a plate packed with bold glyphs; the
	// other reading wins only with strictly more characters.
	mask, _ := imaging.NormalizePolarity(imaging.BinarizeOtsu(imaging.Lightness(img)))
	boxes := s.characterBoxes(mask)
	inverted := imaging.InvertMask(mask)
	if alt := s.characterBoxes(inverted); len(alt) > len(boxes) {
		mask, boxes = inverted, alt
	}

	chars := make([]CharacterBox, 0, len(boxes))
	for i, box := range boxes {
		glyph := imaging.Invert(imaging.Crop(mask, box))
		chars = append(chars, CharacterBox{
			Image: imaging.Pad(glyph, s.cfg.Padding, color.White),
			Index: i,
			Box:   box.Add(bounds.Min),
		})
	}
	return chars
}

// characterBoxes returns the character-sized foreground shapes of mask in
// reading order.
func (s *Segmenter) characterBoxes(mask *image.Gray) []image.Rectangle {
	bounds := mask.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())
	boxes := make([]image.Rectangle, 0)
	for _, c := range geometry.FindContours(mask) {
		h, w := float64(c.Box.Dy()), float64(c.Box.Dx())
		if h < s.cfg.MinHeightRatio*height || h > s.cfg.MaxHeightRatio*height {
			continue
		}
		if w > s.cfg.MaxWidthRatio*width || c.Area < s.cfg.MinArea {
			continue
		}
		if geometry.ReachesCorner(c.Box, bounds) {
			continue
		}
		boxes = append(boxes, c.Box)
	}

	boxes = dropNested(boxes)
	sort.SliceStable(boxes, func(i, j int) bool {
		return geometry.LeftToRight(boxes[i], boxes[j])
	})
	return boxes
}

// dropNested removes every box that lies inside another box, such as the
// counter of a stylized zero. Of two identical boxes the first is kept.
func dropNested(boxes []image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(boxes))
	for i, b := range boxes {
		nested := false
		for j, outer := range boxes {
			if i == j || !b.In(outer) {
				continue
			}
			if b != outer || j < i {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, b)
		}
	}
	return out
}
