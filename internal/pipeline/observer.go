package pipeline

import (
	"image"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/segment"
)

// Observer receives intermediate results of one image for visualization.
// Calls for one image arrive from a single goroutine, in pipeline order.
type Observer interface {
	// Candidates is called once per image with every detector's candidates.
	Candidates(source string, img image.Image, candidates []detection.Candidate)

	// Deskewed is called for each candidate with its leveled plate.
	Deskewed(source string, candidate detection.Candidate, plate image.Image)

	// Characters is called for each candidate after OCR.
	Characters(source string, read PlateRead, chars []segment.CharacterBox)
}

type nopObserver struct{}

func (nopObserver) Candidates(string, image.Image, []detection.Candidate) {}
func (nopObserver) Deskewed(string, detection.Candidate, image.Image) {}
func (nopObserver) Characters(string, PlateRead, []segment.CharacterBox) {}
