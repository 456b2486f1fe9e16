package filters

import (
	"math"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

// GrayscaleMode determines the algorithm for RGB to grayscale conversion.
type GrayscaleMode int

const (
	// GrayscaleLuminance uses ITU-R BT.709 weights: round(0.2126*R + 0.7152*G + 0.0722*B)
	GrayscaleLuminance GrayscaleMode = iota
	// GrayscaleAverage uses simple average: (R + G + B) / 3
	GrayscaleAverage
	// GrayscaleLightness uses min/max average: (max(R,G,B) + min(R,G,B)) / 2
	GrayscaleLightness
)

func (m GrayscaleMode) String() string {
	switch m {
	case GrayscaleLuminance:
		return "luminance"
	case GrayscaleAverage:
		return "average"
	case GrayscaleLightness:
		return "lightness"
	default:
		return "unknown"
	}
}

// Grayscale converts an RGB image to single channel luminance.
func Grayscale(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	return GrayscaleWith(pool, src, GrayscaleLuminance)
}

// GrayscaleWith converts an RGB image to a single channel using mode.
func GrayscaleWith(pool *workerpool.Pool, src *pix.Buffer[uint8], mode GrayscaleMode) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, pix.ShapeRGB888); err != nil {
		return nil, err
	}
	return mapPoints(pool, src, pix.ShapeGray8, func(dst, src []uint8) {
		for i, j := 0, 0; i < len(src); i, j = i+3, j+1 {
			dst[j] = grayOf(mode, src[i], src[i+1], src[i+2])
		}
	}), nil
}

func grayOf(mode GrayscaleMode, r, g, b uint8) uint8 {
	switch mode {
	case GrayscaleAverage:
		return uint8((uint32(r) + uint32(g) + uint32(b)) / 3)
	case GrayscaleLightness:
		return uint8((uint32(min(r, g, b)) + uint32(max(r, g, b))) / 2)
	default:
		return uint8(math.Round(float64(r)*0.2126 + float64(g)*0.7152 + float64(b)*0.0722))
	}
}

// GrayToRGB replicates the single channel of a grayscale image into R, G and B.
func GrayToRGB(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, pix.ShapeGray8); err != nil {
		return nil, err
	}
	return mapPoints(pool, src, pix.ShapeRGB888, func(dst, src []uint8) {
		for i, v := range src {
			dst[3*i], dst[3*i+1], dst[3*i+2] = v, v, v
		}
	}), nil
}
