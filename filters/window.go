package filters

import (
	"errors"
	"fmt"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

var (
	ErrBadKernel      = errors.New("kernel dimensions must be positive")
	ErrBadPadding     = errors.New("padding must not be negative")
	ErrBadStride      = errors.New("stride must be positive")
	ErrKernelTooSmall = errors.New("kernel window too small")
	ErrEmptyOutput    = errors.New("window produces an empty output")
)

// rowBatch is the number of output rows handed to a worker per grab.
const rowBatch = 4

// Window fully determines the padded buffer size and the output size of a
// windowed operation.
type Window struct {
	Kernel  pix.Size
	Padding pix.Size
	Stride  pix.Size
}

// SameWindow returns a stride 1 window padded by kernel/2 on each axis so
// that filtering preserves the input dimensions. Integer division makes the
// padding of even kernels asymmetric: the window extends one pixel further
// before the anchor than after it.
func SameWindow(kernel pix.Size) Window {
	return Window{
		Kernel:  kernel,
		Padding: pix.Size{W: kernel.W / 2, H: kernel.H / 2},
		Stride:  pix.Size{W: 1, H: 1},
	}
}

func (w Window) Validate() error {
	if w.Kernel.W <= 0 || w.Kernel.H <= 0 {
		return fmt.Errorf("%w: got %s", ErrBadKernel, w.Kernel)
	} else if w.Padding.W < 0 || w.Padding.H < 0 {
		return fmt.Errorf("%w: got %s", ErrBadPadding, w.Padding)
	} else if w.Stride.W <= 0 || w.Stride.H <= 0 {
		return fmt.Errorf("%w: got %s", ErrBadStride, w.Stride)
	}
	return nil
}

// PaddedSize returns the size of the zero-padded buffer for an input of size in.
func (w Window) PaddedSize(in pix.Size) pix.Size {
	return pix.Size{W: in.W + 2*w.Padding.W, H: in.H + 2*w.Padding.H}
}

// OutputSize returns the pooling output size
//
//	ceil((in - kernel + 2*padding) / stride) + 1
//
// per axis. The ceiling may count one window that does not fit inside the
// padded buffer. That trailing row or column is left zero by the traversal.
func (w Window) OutputSize(in pix.Size) pix.Size {
	return pix.Size{
		W: ceilDiv(in.W-w.Kernel.W+2*w.Padding.W, w.Stride.W) + 1,
		H: ceilDiv(in.H-w.Kernel.H+2*w.Padding.H, w.Stride.H) + 1,
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		// Go truncates toward zero which is the ceiling for negative quotients.
		return a / b
	}
	return (a + b - 1) / b
}

// Pad returns a copy of src centered in a zero-filled buffer grown by
// padding on every side.
func Pad[T pix.Channel](pool *workerpool.Pool, src *pix.Buffer[T], padding pix.Size) (*pix.Buffer[T], error) {
	if err := pix.Validate(src); err != nil {
		return nil, err
	} else if padding.W < 0 || padding.H < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrBadPadding, padding)
	}
	d := src.Dims()
	ch := d.Shape.Channels()
	dst := pix.NewBuffer[T](d.Shape, d.Width+2*padding.W, d.Height+2*padding.H)
	pool.ParallelFor(d.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := dst.Row(y + padding.H)
			copy(row[padding.W*ch:], src.Row(y))
		}
	})
	return dst, nil
}

// windowVisitor handles a single window. dst is the flat output pixel index
// and origin the flat padded pixel index of the window's top-left sample.
type windowVisitor func(dst, origin int)

// sweep visits every position of an out-sized output whose window lies
// inside the padded buffer. Positions whose window would cross the padded
// border are skipped, not clamped or wrapped, and keep their zero value.
//
// newVisitor is called once per batch of rows so that visitors may own
// scratch space without synchronization.
func sweep(pool *workerpool.Pool, padded pix.Dims, out pix.Size, win Window, newVisitor func() windowVisitor) {
	pool.ParallelForAtomicBatched(out.H, rowBatch, func(start, end int) {
		visit := newVisitor()
		for y := start; y < end; y++ {
			py := y * win.Stride.H
			if py+win.Kernel.H > padded.Height {
				continue
			}
			for x := 0; x < out.W; x++ {
				px := x * win.Stride.W
				if px+win.Kernel.W > padded.Width {
					break // Every following column overflows too.
				}
				visit(y*out.W+x, py*padded.Width+px)
			}
		}
	})
}

// windowOffsets returns the pixel offset of each kernel cell relative to the
// window origin, in row-major kernel order k = dy*kernel.W + dx.
func windowOffsets(paddedWidth int, kernel pix.Size) []int {
	offs := make([]int, 0, kernel.Area())
	for dy := 0; dy < kernel.H; dy++ {
		for dx := 0; dx < kernel.W; dx++ {
			offs = append(offs, dy*paddedWidth+dx)
		}
	}
	return offs
}
