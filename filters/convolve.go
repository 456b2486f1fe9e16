package filters

import (
	"fmt"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/kernel"
	"github.com/tech-kind/pix/workerpool"
)

// Convolve slides k over padded with stride 1 and writes the weighted sum of
// each window, channel by channel, into an out-sized image of the same shape.
//
// Sums are accumulated in float64 in row-major kernel order and truncated
// toward zero into the channel type without clamping, so negative or
// overflowing sums wrap modulo the channel range. Output positions whose
// window does not fit inside padded stay zero.
func Convolve[T pix.Channel](pool *workerpool.Pool, padded *pix.Buffer[T], k kernel.Kernel, out pix.Size) (*pix.Buffer[T], error) {
	return convolve(pool, padded, k, out, false)
}

// ConvolveClamped is like [Convolve] but saturates each sum to
// [0, MaxValue] before narrowing. Edge detectors use it.
func ConvolveClamped[T pix.Channel](pool *workerpool.Pool, padded *pix.Buffer[T], k kernel.Kernel, out pix.Size) (*pix.Buffer[T], error) {
	return convolve(pool, padded, k, out, true)
}

func convolve[T pix.Channel](pool *workerpool.Pool, padded *pix.Buffer[T], k kernel.Kernel, out pix.Size, clamp bool) (*pix.Buffer[T], error) {
	if err := pix.Validate(padded); err != nil {
		return nil, err
	} else if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadKernel, err)
	} else if out.W <= 0 || out.H <= 0 {
		return nil, fmt.Errorf("%w: output %s", ErrEmptyOutput, out)
	}
	d := padded.Dims()
	ch := d.Shape.Channels()
	dst := pix.NewBuffer[T](d.Shape, out.W, out.H)
	src, pixOut := padded.Pix(), dst.Pix()
	offs := windowOffsets(d.Width, k.Size())
	hi := float64(pix.MaxValue[T]())
	win := Window{Kernel: k.Size(), Stride: pix.Size{W: 1, H: 1}}
	sweep(pool, d, out, win, func() windowVisitor {
		acc := make([]float64, ch)
		return func(dstIdx, origin int) {
			clear(acc)
			for i, off := range offs {
				w := k.Weights[i]
				base := (origin + off) * ch
				for c := range acc {
					acc[c] += float64(src[base+c]) * w
				}
			}
			base := dstIdx * ch
			for c, v := range acc {
				if clamp {
					v = min(max(v, 0), hi)
				}
				pixOut[base+c] = narrow[T](v)
			}
		}
	})
	return dst, nil
}

// narrow truncates v toward zero and keeps the low bits of the result.
func narrow[T pix.Channel](v float64) T {
	return T(int64(v))
}

// filterSame pads src by the kernel anchor and convolves it so the result
// has the dimensions of src.
func filterSame[T pix.Channel](pool *workerpool.Pool, src *pix.Buffer[T], k kernel.Kernel, clamp bool) (*pix.Buffer[T], error) {
	win := SameWindow(k.Size())
	padded, err := Pad(pool, src, win.Padding)
	if err != nil {
		return nil, err
	}
	return convolve(pool, padded, k, src.Dims().Bounds(), clamp)
}
