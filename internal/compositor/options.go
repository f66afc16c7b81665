package compositor

import "runtime"

// Options controls the compositing pipeline.
type Options struct {
	// MaskBlur is the Gaussian sigma (pixels) applied to the mask before blending.
	// Zero or negative disables the pre-blur.
	MaskBlur float64
	// FinalBlur is the Gaussian sigma applied to the finished composite.
	// Zero or negative disables the final softening pass.
	FinalBlur float64
	// ResampleMask allows masks of a different size (same aspect ratio) to be
	// rescaled onto the image. When false any size difference is an error.
	ResampleMask bool
	// Workers bounds the goroutines used for the per-row stages.
	Workers int
}

// DefaultOptions returns the settings used for ID photos.
func DefaultOptions() Options {
	return Options{
		MaskBlur:     2,
		FinalBlur:    0.5,
		ResampleMask: true,
		Workers:      runtime.NumCPU(),
	}
}
