package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/plate-reader/internal/pipeline"
)

// ErrEngineClosed is returned by Recognize after Close.
var ErrEngineClosed = errors.New("ocr engine closed")

// Config selects the Tesseract model and how glyphs are presented to it.
type Config struct {
	// Language is a Tesseract language code such as "eng".
	Language string `mapstructure:"language" json:"language"`

	// Whitelist restricts the characters Tesseract may answer with; empty
	// allows all.
	Whitelist string `mapstructure:"whitelist" json:"whitelist"`

	// TessdataPrefix overrides the directory holding *.traineddata.
	TessdataPrefix string `mapstructure:"tessdata_prefix" json:"tessdata_prefix"`

	// MinHeight upscales shorter glyphs; Tesseract is unreliable below
	// about 30 pixels of character height.
	MinHeight int `mapstructure:"min_height" json:"min_height"`
}

// DefaultConfig reads Latin plate characters.
func DefaultConfig() Config {
	return Config{
		Language:  "eng",
		Whitelist: "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
		MinHeight: 40,
	}
}

// Tesseract recognizes single characters with one long-lived engine.
// It is safe for concurrent use; calls are serialized.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
	cfg    Config
}

// NewTesseract configures an engine for single-character pages. Tesseract
// loads its model lazily, so a missing language surfaces on the first
// Recognize.
func NewTesseract(cfg Config) (*Tesseract, error) {
	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if cfg.Whitelist != "" {
		if err := client.SetWhitelist(cfg.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	return &Tesseract{client: client, cfg: cfg}, nil
}

// Recognize implements pipeline.Recognizer.
func (t *Tesseract) Recognize(img image.Image) (pipeline.Recognition, error) {
	data, err := encode(img, t.cfg.MinHeight)
	if err != nil {
		return pipeline.Recognition{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return pipeline.Recognition{}, ErrEngineClosed
	}

	if err := t.client.SetImageFromBytes(data); err != nil {
		return pipeline.Recognition{}, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return pipeline.Recognition{}, fmt.Errorf("OCR failed: %w", err)
	}

	// Confidence is best effort; the text is still usable without it.
	confidence := 0.0
	if boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_SYMBOL); err == nil && len(boxes) > 0 {
		confidence = float64(boxes[0].Confidence) / 100.0
	}

	return pipeline.Recognition{Text: text, Confidence: confidence}, nil
}

// Version reports the linked Tesseract version.
func (t *Tesseract) Version() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return ""
	}
	return t.client.Version()
}

// Close releases the engine. It is safe to call more than once.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// encode upscales img to at least minHeight pixels and returns it as PNG.
func encode(img image.Image, minHeight int) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("empty character image")
	}
	if minHeight > 0 && bounds.Dy() < minHeight {
		img = imaging.Resize(img, 0, minHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
