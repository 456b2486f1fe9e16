package filters

import (
	"fmt"
	"slices"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

// reduceFunc computes one output channel value from the window samples of
// that channel. It may reorder samples.
type reduceFunc[T pix.Channel] func(samples []T) T

// reduce gathers the samples of every window of padded channel by channel
// and writes reduceFn of them to an out-sized image of the same shape.
func reduce[T pix.Channel](pool *workerpool.Pool, padded *pix.Buffer[T], out pix.Size, win Window, reduceFn reduceFunc[T]) *pix.Buffer[T] {
	d := padded.Dims()
	ch := d.Shape.Channels()
	dst := pix.NewBuffer[T](d.Shape, out.W, out.H)
	src, pixOut := padded.Pix(), dst.Pix()
	offs := windowOffsets(d.Width, win.Kernel)
	sweep(pool, d, out, win, func() windowVisitor {
		samples := make([]T, len(offs))
		return func(dstIdx, origin int) {
			for c := 0; c < ch; c++ {
				for i, off := range offs {
					samples[i] = src[(origin+off)*ch+c]
				}
				pixOut[dstIdx*ch+c] = reduceFn(samples)
			}
		}
	})
	return dst
}

// reduceSame pads src by win and reduces it to an image of the same size.
func reduceSame[T pix.Channel](pool *workerpool.Pool, src *pix.Buffer[T], win Window, reduceFn reduceFunc[T]) (*pix.Buffer[T], error) {
	padded, err := Pad(pool, src, win.Padding)
	if err != nil {
		return nil, err
	}
	return reduce(pool, padded, src.Dims().Bounds(), win, reduceFn), nil
}

func meanOf[T pix.Channel](samples []T) T {
	var sum float64
	for _, v := range samples {
		sum += float64(v)
	}
	return narrow[T](sum / float64(len(samples)))
}

func maxOf[T pix.Channel](samples []T) T {
	var hi T
	for _, v := range samples {
		hi = max(hi, v)
	}
	return hi
}

func rangeOf[T pix.Channel](samples []T) T {
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}

// upperMedian sorts samples and returns the element at index n/2+1, one
// past the conventional median of odd-length windows.
func upperMedian[T pix.Channel](samples []T) T {
	slices.Sort(samples)
	return samples[len(samples)/2+1]
}

// Median replaces every channel of every pixel with the sample at sorted
// index n/2+1 of its size window, where n is the window area. Windows with
// fewer than 3 samples are rejected since that index would be out of range.
func Median(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	}
	win := SameWindow(size)
	if err := win.Validate(); err != nil {
		return nil, err
	} else if n := size.Area(); n/2+1 >= n {
		return nil, fmt.Errorf("%w: median of %s needs at least 3 samples", ErrKernelTooSmall, size)
	}
	return reduceSame(pool, src, win, upperMedian[uint8])
}

// MaxMin returns the grayscale image whose pixels are max(window)-min(window)
// over a size window. Color input is converted with [Grayscale] first.
func MaxMin(pool *workerpool.Pool, src *pix.Buffer[uint8], size pix.Size) (*pix.Buffer[uint8], error) {
	gray, err := asGray(pool, src)
	if err != nil {
		return nil, err
	}
	win := SameWindow(size)
	if err := win.Validate(); err != nil {
		return nil, err
	}
	return reduceSame(pool, gray, win, rangeOf[uint8])
}
