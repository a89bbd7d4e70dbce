package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ironsheep/plate-reader/internal/config"
	"github.com/ironsheep/plate-reader/internal/deskew"
	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/ocr"
	"github.com/ironsheep/plate-reader/internal/pipeline"
	"github.com/ironsheep/plate-reader/internal/render"
	"github.com/ironsheep/plate-reader/internal/segment"
	"github.com/ironsheep/plate-reader/internal/server"
	"github.com/ironsheep/plate-reader/internal/watch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("plate-reader %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	configPath := flag.String("config", "", "YAML configuration file")
	debugDir := flag.String("debug-dir", "", "write visualization PNGs to this directory")
	watchDir := flag.String("watch", "", "read images dropped into this directory until interrupted")
	serve := flag.Bool("serve", false, "run as an MCP server on stdin/stdout")
	flag.Usage = printHelp
	flag.Parse()

	opts := options{
		configPath: *configPath,
		debugDir:   *debugDir,
		watchDir:   *watchDir,
		serve:      *serve,
		paths:      flag.Args(),
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "plate-reader: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("plate-reader - read license plates from photographs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plate-reader [options] <image or directory>...")
	fmt.Println("  plate-reader [options] -watch <directory>")
	fmt.Println("  plate-reader [options] -serve")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config <file>       YAML configuration file")
	fmt.Println("  -debug-dir <dir>     Write candidate, deskew and character PNGs")
	fmt.Println("  -watch <dir>         Read images as they are dropped into dir")
	fmt.Println("  -serve               Serve MCP tools over stdin/stdout")
	fmt.Println("  --version, -v        Print version information")
	fmt.Println("  --help, -h           Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PLATE_READER_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
	fmt.Println("  PLATE_READER_DEBUG_DIR=<dir>    Same as -debug-dir")
	fmt.Println("  PLATE_READER_PARALLEL=true      Run detectors concurrently")
	fmt.Println()
	fmt.Println("Each image prints one line: the path, then its plates separated by spaces.")
}

type options struct {
	configPath string
	debugDir   string
	watchDir   string
	serve      bool
	paths      []string
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.debugDir != "" {
		cfg.DebugDir = opts.debugDir
	}
	if !opts.serve && opts.watchDir == "" && len(opts.paths) == 0 {
		return errors.New("no images given (see --help)")
	}

	// Logs go to stderr; stdout carries results or the MCP protocol.
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	engine, err := ocr.NewTesseract(ocr.Config(cfg.OCR))
	if err != nil {
		return err
	}
	defer engine.Close()
	logger.Debug("Plate reader starting", "version", Version, "commit", GitCommit, "tesseract", engine.Version())

	if opts.serve {
		srv, err := server.New(engine, cfg, logger)
		if err != nil {
			return err
		}
		srv.Version = Version
		return srv.Run(os.Stdin, os.Stdout)
	}

	coordinator, err := newCoordinator(cfg, engine, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.watchDir != "" {
		w := watch.New(opts.watchDir, watch.DefaultSettle, logger)
		return w.Watch(ctx, func(path string) {
			img, err := imaging.Open(path)
			if err != nil {
				logger.Warn("Skipping unreadable image", "path", path, "error", err)
				return
			}
			printResult(os.Stdout, coordinator.Process(path, img))
		})
	}

	files, err := imaging.ListImages(opts.paths)
	if err != nil {
		return err
	}
	results, err := coordinator.Run(ctx, files, imaging.Open)
	for _, r := range results {
		printResult(os.Stdout, r)
	}
	return err
}

// newCoordinator assembles the pipeline described by cfg.
func newCoordinator(cfg config.Config, recognizer pipeline.Recognizer, logger *slog.Logger) (*pipeline.Coordinator, error) {
	detectors, err := detection.NewSet(cfg.Detectors, cfg.Detection)
	if err != nil {
		return nil, err
	}
	deskewer, err := deskew.New(cfg.Deskew)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithDetectors(detectors...),
		pipeline.WithDeskewer(deskewer),
		pipeline.WithSegmenter(segment.New(cfg.Segment)),
		pipeline.WithParallel(cfg.Parallel),
		pipeline.WithLogger(logger),
	}
	if cfg.DebugDir != "" {
		renderer, err := render.NewFileRenderer(cfg.DebugDir, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithObserver(renderer))
		logger.Info("Writing debug images", "dir", cfg.DebugDir)
	}
	return pipeline.New(recognizer, opts...), nil
}

func printResult(w io.Writer, r pipeline.Result) {
	fmt.Fprintf(w, "%s: %s\n", r.Source, strings.Join(r.Plates, " "))
}
