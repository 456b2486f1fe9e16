package filters

import (
	"fmt"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

// AveragePooling downsamples src by averaging each channel over strided
// windows. See [Window.OutputSize] for the output dimensions.
func AveragePooling(pool *workerpool.Pool, src *pix.Buffer[uint8], kernel, padding, stride pix.Size) (*pix.Buffer[uint8], error) {
	return pooling(pool, src, Window{Kernel: kernel, Padding: padding, Stride: stride}, meanOf[uint8])
}

// MaxPooling downsamples src by keeping each channel's maximum over strided windows.
func MaxPooling(pool *workerpool.Pool, src *pix.Buffer[uint8], kernel, padding, stride pix.Size) (*pix.Buffer[uint8], error) {
	return pooling(pool, src, Window{Kernel: kernel, Padding: padding, Stride: stride}, maxOf[uint8])
}

func pooling(pool *workerpool.Pool, src *pix.Buffer[uint8], win Window, reduceFn reduceFunc[uint8]) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	} else if err := win.Validate(); err != nil {
		return nil, err
	}
	out := win.OutputSize(src.Dims().Bounds())
	if out.W <= 0 || out.H <= 0 {
		return nil, fmt.Errorf("%w: kernel %s over padded %s", ErrEmptyOutput, win.Kernel, win.PaddedSize(src.Dims().Bounds()))
	}
	padded, err := Pad(pool, src, win.Padding)
	if err != nil {
		return nil, err
	}
	return reduce(pool, padded, out, win, reduceFn), nil
}
