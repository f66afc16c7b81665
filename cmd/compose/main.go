package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/danmaidesenling/imageProcessor/internal/compositor"
	"github.com/danmaidesenling/imageProcessor/internal/config"
	"github.com/danmaidesenling/imageProcessor/internal/imageio"
	"github.com/danmaidesenling/imageProcessor/internal/logging"
	"github.com/danmaidesenling/imageProcessor/internal/photosize"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	in := flag.String("in", "", "Input photo (JPEG, PNG, TGA, WebP)")
	maskPath := flag.String("mask", "", "Segmentation mask image")
	out := flag.String("out", "", "Output file (.png or .webp); default derives from -size")
	bg := flag.String("color", "", "Background color #RRGGBB (default: #438EDB)")
	size := flag.String("size", "", "Print size: 1, 2, 2l or WxHmm (default: keep source size)")
	maskAlpha := flag.Bool("mask-alpha", false, "Read the mask from the alpha channel")
	maskBlur := flag.Float64("mask-blur", 0, "Mask pre-blur sigma, 0 disables (default: 2)")
	finalBlur := flag.Float64("final-blur", 0, "Final blur sigma, 0 disables (default: 0.5)")
	resampleMask := flag.Bool("resample-mask", true, "Resample masks whose size differs from the photo")
	logLevel := flag.String("log", "", "Log level (default: info)")

	flag.Parse()

	if *in == "" || *maskPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: compose -in photo.jpg -mask mask.png [-color #RRGGBB] [-size 1|2|2l|WxHmm] [-out out.png]")
		os.Exit(2)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	// Render settings only override the config file when given explicitly.
	flags := config.Flags{
		Background: *bg,
		Size:       *size,
		LogLevel:   *logLevel,
		MaskAlpha:  *maskAlpha,
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

	log, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, cfg, *in, *maskPath, *out); err != nil {
		log.Error("compose failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, cfg config.Config, in, maskPath, out string) error {
	start := time.Now()

	var target *photosize.Size
	if cfg.Size != "" {
		s, err := photosize.Parse(cfg.Size)
		if err != nil {
			return err
		}
		target = &s
	}
	if out == "" {
		format, err := imageio.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		out = "composite." + string(format)
		if target != nil {
			out = target.FileName(string(format))
		}
	}

	photo, err := imageio.Load(in)
	if err != nil {
		return err
	}
	mask, err := imageio.LoadMask(maskPath, cfg.MaskAlpha)
	if err != nil {
		return err
	}

	comp := compositor.New(cfg.CompositorOptions(), log)
	result, err := comp.Composite(photo, mask, cfg.Background)
	if err != nil {
		return err
	}

	var final image.Image = result
	if target != nil {
		final = photosize.Fit(result, *target)
	}
	if err := imageio.Save(out, final); err != nil {
		return err
	}

	b := final.Bounds()
	log.Info("composite written",
		zap.String("output", out),
		zap.String("background", cfg.Background),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
