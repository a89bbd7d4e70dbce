package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/plate-reader/internal/deskew"
	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/geometry"
	"github.com/ironsheep/plate-reader/internal/segment"
)

// CharacterRead is the recognition of one segmented character.
type CharacterRead struct {
	Index int             `json:"index"`
	Box   image.Rectangle `json:"box"`
	Recognition
}

// PlateRead is everything read from one candidate.
type PlateRead struct {
	Detector   string          `json:"detector"`
	Rect       geometry.Rect   `json:"rect"`
	Text       string          `json:"text"`
	Characters []CharacterRead `json:"characters"`
}

// Result is the outcome for one image.
type Result struct {
	Source string `json:"source"`

	// Plates holds the distinct non-empty plate strings, sorted.
	Plates []string `json:"plates"`

	// Reads holds one entry per candidate, including empty readings.
	Reads []PlateRead `json:"reads"`
}

// Coordinator runs detection, deskewing, segmentation and recognition for
// each image and merges the readings of all detectors.
type Coordinator struct {
	detectors  []detection.PlateDetector
	deskewer   deskew.Deskewer
	segmenter  *segment.Segmenter
	recognizer Recognizer
	observer   Observer
	logger     *slog.Logger
	parallel   bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDetectors replaces the default detector set.
func WithDetectors(detectors ...detection.PlateDetector) Option {
	return func(c *Coordinator) { c.detectors = detectors }
}

// WithDeskewer replaces the default text-line deskewer.
func WithDeskewer(d deskew.Deskewer) Option {
	return func(c *Coordinator) { c.deskewer = d }
}

// WithSegmenter replaces the default segmenter.
func WithSegmenter(s *segment.Segmenter) Option {
	return func(c *Coordinator) { c.segmenter = s }
}

// WithObserver attaches a visualization collaborator.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithParallel runs the detectors of one image concurrently.
func WithParallel(parallel bool) Option {
	return func(c *Coordinator) { c.parallel = parallel }
}

// New creates a Coordinator around recognizer. Without options it runs every
// detector with default settings.
func New(recognizer Recognizer, opts ...Option) *Coordinator {
	c := &Coordinator{
		deskewer:   deskew.NewTextDeskewer(deskew.DefaultConfig()),
		segmenter:  segment.New(segment.DefaultConfig()),
		recognizer: recognizer,
		observer:   nopObserver{},
		logger:     slog.Default(),
	}
	cfg := detection.DefaultConfig()
	c.detectors = []detection.PlateDetector{
		detection.NewThresholdBlurDetector(cfg.Threshold, cfg.Plate),
		detection.NewCannyDetector(cfg.Canny, cfg.Plate),
		detection.NewMorphologyDetector(cfg.Morphology, cfg.Plate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loads and processes each path in order. A load failure stops the run
// and is returned with the results gathered so far.
func (c *Coordinator) Run(ctx context.Context, paths []string, load func(string) (image.Image, error)) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		img, err := load(path)
		if err != nil {
			return results, fmt.Errorf("load %s: %w", path, err)
		}
		results = append(results, c.Process(path, img))
	}
	return results, nil
}

// Process reads every plate in img. It never fails: detectors or candidates
// that panic are logged and skipped.
func (c *Coordinator) Process(source string, img image.Image) Result {
	log := c.logger.With("source", source)
	bounds := img.Bounds()
	log.Debug("Starting plate detection", "width", bounds.Dx(), "height", bounds.Dy(), "detectors", len(c.detectors))

	candidates := c.detect(log, img)
	c.observer.Candidates(source, img, candidates)
	log.Debug("Plate detection completed", "candidates", len(candidates))

	result := Result{Source: source, Plates: []string{}, Reads: make([]PlateRead, 0, len(candidates))}
	seen := make(map[string]struct{})
	for _, cand := range candidates {
		read, ok := c.read(log, source, cand)
		if !ok {
			continue
		}
		result.Reads = append(result.Reads, read)
		if read.Text == "" {
			continue
		}
		if _, dup := seen[read.Text]; !dup {
			seen[read.Text] = struct{}{}
			result.Plates = append(result.Plates, read.Text)
		}
	}
	sort.Strings(result.Plates)

	log.Info("Image processed", "plates", result.Plates, "reads", len(result.Reads))
	return result
}

// detect gathers the candidates of every detector in detector order.
func (c *Coordinator) detect(log *slog.Logger, img image.Image) []detection.Candidate {
	found := make([][]detection.Candidate, len(c.detectors))
	run := func(i int) {
		d := c.detectors[i]
		defer func() {
			if r := recover(); r != nil {
				log.Error("Detector panicked", "detector", d.Name(), "panic", r)
				found[i] = nil
			}
		}()
		found[i] = d.FindPlates(img)
		log.Debug("Detector finished", "detector", d.Name(), "candidates", len(found[i]))
	}

	if c.parallel {
		var g errgroup.Group
		for i := range c.detectors {
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		// run recovers every panic, so Wait has no error to report.
		_ = g.Wait()
	} else {
		for i := range c.detectors {
			run(i)
		}
	}

	var all []detection.Candidate
	for _, f := range found {
		all = append(all, f...)
	}
	return all
}

// read runs the per-candidate chain. ok is false when the chain panicked.
func (c *Coordinator) read(log *slog.Logger, source string, cand detection.Candidate) (read PlateRead, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Candidate processing panicked", "detector", cand.Detector, "box", cand.Rect.Box, "panic", r)
			ok = false
		}
	}()

	plate := c.deskewer.Deskew(cand.Plate)
	c.observer.Deskewed(source, cand, plate)

	chars := c.segmenter.Segment(plate)
	read = PlateRead{
		Detector:   cand.Detector,
		Rect:       cand.Rect,
		Characters: make([]CharacterRead, 0, len(chars)),
	}

	var text strings.Builder
	for _, ch := range chars {
		rec, err := c.recognizer.Recognize(ch.Image)
		if err != nil {
			log.Warn("Character recognition failed", "detector", cand.Detector, "index", ch.Index, "error", err)
			rec = Recognition{}
		}
		rec.Text = CleanLabel(rec.Text)
		text.WriteString(rec.Text)
		read.Characters = append(read.Characters, CharacterRead{Index: ch.Index, Box: ch.Box, Recognition: rec})
	}
	read.Text = text.String()

	c.observer.Characters(source, read, chars)
	log.Debug("Candidate read", "detector", cand.Detector, "box", cand.Rect.Box, "characters", len(chars), "text", read.Text)
	return read, true
}
