package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/danmaidesenling/imageProcessor/internal/batch"
	"github.com/danmaidesenling/imageProcessor/internal/compositor"
	"github.com/danmaidesenling/imageProcessor/internal/config"
	"github.com/danmaidesenling/imageProcessor/internal/imageio"
	"github.com/danmaidesenling/imageProcessor/internal/logging"
	"github.com/danmaidesenling/imageProcessor/internal/photosize"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Directory of photos and <name>_mask masks")
	outputDir := flag.String("output", "", "Output directory (default: <input>-out)")
	bg := flag.String("color", "", "Background color #RRGGBB (default: #438EDB)")
	size := flag.String("size", "", "Print size: 1, 2, 2l or WxHmm (default: keep source size)")
	format := flag.String("format", "", "Output format png or webp (default: png)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	maskAlpha := flag.Bool("mask-alpha", false, "Read masks from the alpha channel")
	maskSuffix := flag.String("mask-suffix", "", "Mask file name suffix (default: _mask)")
	maskBlur := flag.Float64("mask-blur", 0, "Mask pre-blur sigma, 0 disables (default: 2)")
	finalBlur := flag.Float64("final-blur", 0, "Final blur sigma, 0 disables (default: 0.5)")
	resampleMask := flag.Bool("resample-mask", true, "Resample masks whose size differs from the photo")
	logLevel := flag.String("log", "", "Log level (default: info)")
	logDev := flag.Bool("log-dev", false, "Human-readable colored log output")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file; render settings only when given explicitly.
	flags := config.Flags{
		InputDir:   *inputDir,
		OutputDir:  *outputDir,
		Background: *bg,
		Size:       *size,
		Format:     *format,
		Workers:    *workers,
		LogLevel:   *logLevel,
		LogDev:     *logDev,
		MaskAlpha:  *maskAlpha,
		MaskSuffix: *maskSuffix,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mask-blur":
			flags.MaskBlur = maskBlur
		case "final-blur":
			flags.FinalBlur = finalBlur
		case "resample-mask":
			flags.ResampleMask = resampleMask
		}
	})
	cfg.Resolve(flags)

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed, err := run(ctx, log, cfg)
	if err != nil {
		log.Error("batch failed", zap.Error(err))
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, cfg config.Config) (int, error) {
	if cfg.InputDir == "" {
		return 0, fmt.Errorf("no input directory, use -input or config.json")
	}
	// Fail fast on a bad color instead of once per photo.
	if _, err := compositor.ParseHexColor(cfg.Background); err != nil {
		return 0, err
	}
	format, err := imageio.ParseFormat(cfg.Format)
	if err != nil {
		return 0, err
	}
	var target *photosize.Size
	if cfg.Size != "" {
		s, err := photosize.Parse(cfg.Size)
		if err != nil {
			return 0, err
		}
		target = &s
	}

	jobs, missing, err := batch.Discover(cfg.InputDir, cfg.MaskSuffix)
	if err != nil {
		return 0, err
	}
	for _, m := range missing {
		log.Warn("photo has no mask, skipped", zap.String("photo", m))
	}
	if len(jobs) == 0 {
		log.Info("no photos to composite", zap.String("input", cfg.InputDir))
		return 0, nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return 0, err
	}

	log.Info("batch starting",
		zap.Int("photos", len(jobs)),
		zap.Int("workers", cfg.Workers),
		zap.String("output", cfg.OutputDir),
		zap.String("background", cfg.Background),
		zap.String("size", cfg.Size))

	start := time.Now()

	// Photos are spread over the pool; each composite runs its rows serially.
	opts := cfg.CompositorOptions()
	opts.Workers = 1
	results := batch.Run(ctx, batch.Config{
		OutputDir:  cfg.OutputDir,
		Compositor: compositor.New(opts, log),
		Background: cfg.Background,
		Size:       target,
		Format:     format,
		MaskAlpha:  cfg.MaskAlpha,
		Workers:    cfg.Workers,
		Log:        log,
	}, jobs)

	manifest := batch.BuildManifest(cfg.OutputDir, cfg.Background, cfg.Size, results)
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		log.Warn("manifest write failed", zap.Error(err))
	}

	log.Info("batch done",
		zap.Int("composited", len(manifest.Items)),
		zap.Int("failed", len(manifest.Failed)),
		zap.String("manifest", manifestPath),
		zap.Duration("elapsed", time.Since(start)))

	return len(manifest.Failed), nil
}
