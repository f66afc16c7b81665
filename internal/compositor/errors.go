package compositor

import "errors"

var (
	// ErrInvalidColor is returned when the background color is not a 6-digit hex value.
	ErrInvalidColor = errors.New("compositor: invalid color")
	// ErrDimensionMismatch is returned when the mask cannot be mapped onto the source image.
	ErrDimensionMismatch = errors.New("compositor: dimension mismatch")
	// ErrEmptyImage is returned for a source image with zero width or height.
	ErrEmptyImage = errors.New("compositor: empty image")
)
