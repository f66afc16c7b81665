// Package imageio decodes photos and masks and encodes lossless composites.
package imageio

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"github.com/danmaidesenling/imageProcessor/internal/compositor"
	"github.com/danmaidesenling/imageProcessor/internal/raster"
)

// Format is a lossless output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatWebP:
		return f, nil
	default:
		return "", fmt.Errorf("imageio: unsupported output format %q", s)
	}
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Decode reads a JPEG, PNG, GIF, WebP or TGA image into NRGBA. The format is
// sniffed from the leading bytes; input matching none of the signatures is
// read as TGA, which has no magic number.
func Decode(r io.Reader) (*image.NRGBA, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(12)

	var decode func(io.Reader) (image.Image, error)
	switch {
	case bytes.HasPrefix(head, []byte("\x89PNG\r\n\x1a\n")):
		decode = png.Decode
	case bytes.HasPrefix(head, []byte("\xff\xd8")):
		decode = jpeg.Decode
	case bytes.HasPrefix(head, []byte("GIF8")):
		decode = gif.Decode
	case len(head) == 12 && string(head[:4]) == "RIFF" && string(head[8:]) == "WEBP":
		decode = webp.Decode
	default:
		decode = tga.Decode
	}
	return decodeWith(br, decode)
}

func decodeWith(r io.Reader, decode func(io.Reader) (image.Image, error)) (*image.NRGBA, error) {
	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return raster.ToNRGBA(img), nil
}

// Load reads and decodes an image file. Files named .tga go straight to the
// TGA decoder; everything else is sniffed by Decode.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	var img *image.NRGBA
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = decodeWith(bufio.NewReader(f), tga.Decode)
	} else {
		img, err = Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: %w", path, err)
	}
	return img, nil
}

// LoadMask reads a rendered probability mask. With fromAlpha the alpha channel
// of a cutout is used instead of the red/gray channel.
func LoadMask(path string, fromAlpha bool) (*compositor.Mask, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	if fromAlpha {
		return compositor.MaskFromAlpha(img), nil
	}
	return compositor.MaskFromImage(img), nil
}

// Encode writes img losslessly in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("imageio: PNG encode: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("imageio: WebP encode: %w", err)
		}
	default:
		return fmt.Errorf("imageio: unsupported output format %q", format)
	}
	return nil
}

// Save encodes img to path, creating parent directories. The format follows
// the file extension.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, img, format); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return f.Close()
}
