package pipeline

import (
	"image"
	"strings"
)

// Recognition is the OCR reading of one character image.
type Recognition struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0 to 1
}

// Recognizer reads a single character. Implementations may return any
// string; the coordinator cleans it with CleanLabel.
type Recognizer interface {
	Recognize(img image.Image) (Recognition, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(img image.Image) (Recognition, error)

// Recognize implements Recognizer.
func (f RecognizerFunc) Recognize(img image.Image) (Recognition, error) {
	return f(img)
}

// CleanLabel keeps the printable, non-space ASCII characters of an OCR
// reading. Line breaks and form feeds that engines append are dropped with
// everything else outside '!' through '~'.
func CleanLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= '!' && r <= '~' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
