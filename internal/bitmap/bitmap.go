// Package bitmap converts between image files, [image.Image] values and
// pixel buffers.
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/filters"
	"github.com/tech-kind/pix/workerpool"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Registers the WebP decoder.
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an image file encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

var extensions = map[string]Format{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
}

// Encodable reports whether images can be written in format f. WebP is
// decode only.
func (f Format) Encodable() bool { return f != FormatWebP && f != "" }

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// Extensions returns the recognized file extensions in lexical order.
func Extensions() []string {
	exts := lo.Keys(extensions)
	slices.Sort(exts)
	return exts
}

// Decode reads an image in any registered format and converts it to a
// buffer. Gray images become ShapeGray8, everything else ShapeRGB888.
func Decode(r io.Reader) (*pix.Buffer[uint8], Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return FromImage(img), Format(name), nil
}

// EncodeOptions tunes lossy encoders.
type EncodeOptions struct {
	// JPEGQuality ranges from 1 to 100. Zero selects jpeg.DefaultQuality.
	JPEGQuality int
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format, opts EncodeOptions) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		q := opts.JPEGQuality
		if q == 0 {
			q = jpeg.DefaultQuality
		} else if q < 1 || q > 100 {
			return fmt.Errorf("jpeg quality %d out of range 1..100", q)
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, f)
}

// FromImage copies img into a new buffer. Alpha is dropped.
func FromImage(img image.Image) *pix.Buffer[uint8] {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch src := img.(type) {
	case *image.Gray:
		dst := pix.NewGray8(w, h)
		for y := 0; y < h; y++ {
			off := y * src.Stride
			copy(dst.Row(y), src.Pix[off:off+w])
		}
		return dst
	case *image.Gray16:
		dst := pix.NewGray8(w, h)
		for y := 0; y < h; y++ {
			row := dst.Row(y)
			off := y * src.Stride
			for x := range row {
				row[x] = src.Pix[off+2*x] // High byte of the big endian sample.
			}
		}
		return dst
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	dst := pix.NewRGB8(w, h)
	for y := 0; y < h; y++ {
		row := dst.Row(y)
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*w]
		for x := 0; x < w; x++ {
			copy(row[3*x:3*x+3], src[4*x:4*x+3])
		}
	}
	return dst
}

// ToImage converts img for encoding. ShapeGray8 becomes *image.Gray and
// ShapeRGB888 an opaque *image.NRGBA. ShapeRGB48 is read as HSV and
// converted to RGB on pool first.
func ToImage(pool *workerpool.Pool, img pix.Image) (image.Image, error) {
	if img == nil {
		return nil, pix.ErrNilImage
	}
	if hsv, ok := img.(*pix.Buffer[uint16]); ok {
		rgb, err := filters.HSVToRGB(pool, hsv)
		if err != nil {
			return nil, err
		}
		img = rgb
	}
	buf, ok := img.(*pix.Buffer[uint8])
	if !ok {
		return nil, fmt.Errorf("cannot convert %T: %w", img, pix.ErrShapeMismatch)
	}
	if err := pix.Validate(buf, pix.ShapeRGB888, pix.ShapeGray8); err != nil {
		return nil, err
	}
	d := buf.Dims()
	if d.Shape == pix.ShapeGray8 {
		gray := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
		for y := 0; y < d.Height; y++ {
			copy(gray.Pix[y*gray.Stride:], buf.Row(y))
		}
		return gray, nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y++ {
		row := buf.Row(y)
		dst := out.Pix[y*out.Stride : y*out.Stride+4*d.Width]
		for x := 0; x < d.Width; x++ {
			copy(dst[4*x:4*x+3], row[3*x:3*x+3])
			dst[4*x+3] = 0xff
		}
	}
	return out, nil
}
