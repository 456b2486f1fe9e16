package filters

import (
	"errors"
	"fmt"
	"math"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

var ErrBadLevels = errors.New("color subtraction levels must be within 1..256")

// RGBToBGR swaps the red and blue channels.
func RGBToBGR(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, pix.ShapeRGB888); err != nil {
		return nil, err
	}
	return mapSame(pool, src, func(dst, src []uint8) {
		for i := 0; i < len(src); i += 3 {
			dst[i], dst[i+1], dst[i+2] = src[i+2], src[i+1], src[i]
		}
	}), nil
}

// RGBToHSV converts src to an HSV image carried in 16 bit channels.
// Hue is in whole degrees [0, 360), saturation is max-min and value is max
// of the RGB channels, both in 0..255. Achromatic pixels get hue 0.
func RGBToHSV(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint16], error) {
	if err := pix.Validate(src, pix.ShapeRGB888); err != nil {
		return nil, err
	}
	return mapPoints(pool, src, pix.ShapeRGB48, func(dst []uint16, src []uint8) {
		for i := 0; i < len(src); i += 3 {
			dst[i], dst[i+1], dst[i+2] = hsvOf(src[i], src[i+1], src[i+2])
		}
	}), nil
}

func hsvOf(r8, g8, b8 uint8) (h, s, v uint16) {
	r, g, b := int(r8), int(g8), int(b8)
	hi, lo := max(r, g, b), min(r, g, b)
	var hue int
	// Integer division truncates toward zero.
	switch {
	case hi == lo:
		hue = 0
	case lo == b:
		hue = 60*(g-r)/(hi-lo) + 60
	case lo == r:
		hue = 60*(b-g)/(hi-lo) + 180
	default:
		hue = 60*(r-b)/(hi-lo) + 300
	}
	return uint16(hue), uint16(hi - lo), uint16(hi)
}

// HSVToRGB converts an image produced by [RGBToHSV] back to RGB.
// Normalized components are scaled by 255 and truncated.
func HSVToRGB(pool *workerpool.Pool, src *pix.Buffer[uint16]) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, pix.ShapeRGB48); err != nil {
		return nil, err
	}
	return mapPoints(pool, src, pix.ShapeRGB888, func(dst []uint8, src []uint16) {
		for i := 0; i < len(src); i += 3 {
			dst[i], dst[i+1], dst[i+2] = rgbOf(src[i], src[i+1], src[i+2])
		}
	}), nil
}

func rgbOf(h, s, v uint16) (r8, g8, b8 uint8) {
	c := float64(s) / 255
	hh := float64(h) / 60
	x := c * (1 - math.Abs(math.Mod(hh, 2)-1))
	base := float64(v)/255 - c
	r, g, b := base, base, base
	switch {
	case hh < 1:
		r += c
		g += x
	case hh < 2:
		r += x
		g += c
	case hh < 3:
		g += c
		b += x
	case hh < 4:
		g += x
		b += c
	case hh < 5:
		r += x
		b += c
	case hh < 6:
		r += c
		b += x
	}
	return narrow[uint8](r * 255), narrow[uint8](g * 255), narrow[uint8](b * 255)
}

// InverseHue rotates the hue of an HSV image by 180 degrees.
func InverseHue(pool *workerpool.Pool, src *pix.Buffer[uint16]) (*pix.Buffer[uint16], error) {
	if err := pix.Validate(src, pix.ShapeRGB48); err != nil {
		return nil, err
	}
	return mapSame(pool, src, func(dst, src []uint16) {
		for i := 0; i < len(src); i += 3 {
			dst[i] = uint16((int(src[i]) + 180) % 360)
			dst[i+1], dst[i+2] = src[i+1], src[i+2]
		}
	}), nil
}

// ComplementaryColor replaces every color with its complement by inverting
// the hue in HSV space.
func ComplementaryColor(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	hsv, err := RGBToHSV(pool, src)
	if err != nil {
		return nil, err
	}
	inv, err := InverseHue(pool, hsv)
	if err != nil {
		return nil, err
	}
	return HSVToRGB(pool, inv)
}

// ColorSubtraction posterizes src to levels buckets per channel. With
// th = 256/levels every value v maps to v/th*th + th/2, wrapping modulo 256
// when the last bucket overflows.
func ColorSubtraction(pool *workerpool.Pool, src *pix.Buffer[uint8], levels int) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	} else if levels < 1 || levels > 256 {
		return nil, fmt.Errorf("%w: got %d", ErrBadLevels, levels)
	}
	th := 256 / levels
	return mapSame(pool, src, func(dst, src []uint8) {
		for i, v := range src {
			dst[i] = uint8(int(v)/th*th + th/2)
		}
	}), nil
}
