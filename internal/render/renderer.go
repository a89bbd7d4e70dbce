package render

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/pipeline"
	"github.com/ironsheep/plate-reader/internal/segment"
)

// FileRenderer writes the intermediate results of every image as PNG files
// into a debug directory. For a source "car.jpg" it produces:
//
//	car_candidates.png        the photograph with candidate boxes
//	car_plate1_deskewed.png   each leveled plate, numbered in read order
//	car_plate1_chars.png      that plate's characters with their readings
//
// Write failures are logged, not returned; visualization never stops a run.
type FileRenderer struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	plates map[string]int
}

var _ pipeline.Observer = (*FileRenderer)(nil)

// NewFileRenderer creates dir if needed.
func NewFileRenderer(dir string, logger *slog.Logger) (*FileRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create debug directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRenderer{dir: dir, logger: logger, plates: make(map[string]int)}, nil
}

// Candidates implements pipeline.Observer.
func (r *FileRenderer) Candidates(source string, img image.Image, candidates []detection.Candidate) {
	r.mu.Lock()
	r.plates[source] = 0
	r.mu.Unlock()

	r.save(DrawCandidates(img, candidates), source, "candidates")
}

// Deskewed implements pipeline.Observer.
func (r *FileRenderer) Deskewed(source string, _ detection.Candidate, plate image.Image) {
	r.mu.Lock()
	r.plates[source]++
	n := r.plates[source]
	r.mu.Unlock()

	r.save(plate, source, fmt.Sprintf("plate%d_deskewed", n))
}

// Characters implements pipeline.Observer.
func (r *FileRenderer) Characters(source string, read pipeline.PlateRead, chars []segment.CharacterBox) {
	r.mu.Lock()
	n := r.plates[source]
	r.mu.Unlock()

	r.save(Montage(chars, read.Characters), source, fmt.Sprintf("plate%d_chars", n))
}

// Path returns the file a stage of source is written to.
func (r *FileRenderer) Path(source, stage string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(r.dir, base+"_"+stage+".png")
}

func (r *FileRenderer) save(img image.Image, source, stage string) {
	path := r.Path(source, stage)
	if err := imaging.Save(img, path); err != nil {
		r.logger.Warn("Failed to write debug image", "path", path, "error", err)
		return
	}
	r.logger.Debug("Wrote debug image", "path", path)
}
