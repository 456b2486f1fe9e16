package filters

import (
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

// PointFunc processes a contiguous row of pixels.
// dst and src contain the same number of pixels in their respective shapes.
// The function should iterate through pixels: for i := 0; i < len(src); i += channels { ... }
type PointFunc[Out, In pix.Channel] func(dst []Out, src []In)

// mapPoints allocates an image of shape out with the dimensions of src and
// fills it by calling fn once per row. Rows are spread over pool.
// src must have been validated by the caller.
func mapPoints[Out, In pix.Channel](pool *workerpool.Pool, src *pix.Buffer[In], out pix.Shape, fn PointFunc[Out, In]) *pix.Buffer[Out] {
	d := src.Dims()
	dst := pix.NewBuffer[Out](out, d.Width, d.Height)
	pool.ParallelFor(d.Height, func(start, end int) {
		for y := start; y < end; y++ {
			fn(dst.Row(y), src.Row(y))
		}
	})
	return dst
}

// mapSame is mapPoints for operations that keep the source shape.
func mapSame[T pix.Channel](pool *workerpool.Pool, src *pix.Buffer[T], fn PointFunc[T, T]) *pix.Buffer[T] {
	return mapPoints(pool, src, src.Dims().Shape, fn)
}
