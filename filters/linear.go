package filters

import (
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/kernel"
	"github.com/tech-kind/pix/workerpool"
)

// shapes8 are the 8 bit shapes accepted by most operations.
var shapes8 = []pix.Shape{pix.ShapeRGB888, pix.ShapeGray8}

// Gaussian blurs src with a normalized Gaussian kernel of the given size and
// standard deviation. The result keeps the shape and dimensions of src.
func Gaussian(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size, sigma float64) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	}
	k, err := kernel.Gaussian(size, sigma)
	if err != nil {
		return nil, err
	}
	return filterSame(pool, src, k, false)
}

// Motion blurs src along the main diagonal of a size window.
func Motion(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	}
	k, err := kernel.Motion(size)
	if err != nil {
		return nil, err
	}
	return filterSame(pool, src, k, false)
}

// Smoothing replaces every pixel with the mean of its size window. Samples
// are summed before dividing by the window area and the mean is truncated.
func Smoothing(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	}
	win := SameWindow(size)
	if err := win.Validate(); err != nil {
		return nil, err
	}
	return reduceSame(pool, src, win, meanOf[uint8])
}

// Diff returns the grayscale first difference of src along axis using
// the fixed 3x3 kernel. Color input is converted with [Grayscale] first.
// Responses are clamped to [0, 255] so only positive gradients remain.
func Diff(pool *workerpool.Pool, src *pix.Buffer[uint8], axis kernel.Axis) (*pix.Buffer[uint8], error) {
	gray, err := asGray(pool, src)
	if err != nil {
		return nil, err
	}
	return filterSame(pool, gray, kernel.Diff(axis), true)
}

// Prewitt is like [Diff] with a Prewitt kernel of the given size.
func Prewitt(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size, axis kernel.Axis) (*pix.Buffer[uint8], error) {
	return edge(pool, src, size, axis, kernel.Prewitt)
}

// Sobel is like [Diff] with a Sobel kernel of the given size.
func Sobel(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size, axis kernel.Axis) (*pix.Buffer[uint8], error) {
	return edge(pool, src, size, axis, kernel.Sobel)
}

func edge(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size, axis kernel.Axis, build func(pix.Size, kernel.Axis) (kernel.Kernel, error)) (*pix.Buffer[uint8], error) {
	gray, err := asGray(pool, src)
	if err != nil {
		return nil, err
	}
	k, err := build(size, axis)
	if err != nil {
		return nil, err
	}
	return filterSame(pool, gray, k, true)
}

// asGray returns src itself when it is already grayscale and its
// luminance conversion when it is RGB.
func asGray(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	}
	if src.Dims().Shape == pix.ShapeGray8 {
		return src, nil
	}
	return Grayscale(pool, src)
}
