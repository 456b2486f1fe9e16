// Package kernel builds the flat weight arrays used by the convolution engine.
//
// Weights are stored row-major so index k = dy*Width + dx matches the order
// in which the convolution engine walks a window. All builders are pure
// functions of the kernel shape.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/ms2"
	"github.com/tech-kind/pix"
)

// DefaultSigma is the standard deviation used by the Gaussian filter when none is given.
const DefaultSigma = 1.3

var errBadSize = errors.New("kernel dimensions must be positive")

// Kernel is a small 2D weight matrix.
type Kernel struct {
	Width   int
	Height  int
	Weights []float64
}

// Size returns the kernel dimensions.
func (k Kernel) Size() pix.Size { return pix.Size{W: k.Width, H: k.Height} }

// At returns the weight at column x and row y.
func (k Kernel) At(x, y int) float64 { return k.Weights[y*k.Width+x] }

// Sum returns the sum of all weights.
func (k Kernel) Sum() (sum float64) {
	for _, w := range k.Weights {
		sum += w
	}
	return sum
}

// Anchor returns the window offset that lines the kernel up with the pixel
// it produces. It is also the padding needed to keep image dimensions: size/2
// per axis with integer division, so even sizes pad asymmetrically.
func (k Kernel) Anchor() pix.Size {
	return pix.Size{W: k.Width / 2, H: k.Height / 2}
}

// Validate checks that the weight count matches the dimensions.
func (k Kernel) Validate() error {
	if k.Width <= 0 || k.Height <= 0 {
		return errBadSize
	} else if len(k.Weights) != k.Width*k.Height {
		return fmt.Errorf("kernel %dx%d has %d weights", k.Width, k.Height, len(k.Weights))
	}
	return nil
}

func newKernel(size pix.Size) Kernel {
	return Kernel{Width: size.W, Height: size.H, Weights: make([]float64, size.Area())}
}

func checkSize(size pix.Size) error {
	if size.W <= 0 || size.H <= 0 {
		return fmt.Errorf("%s: %w", size, errBadSize)
	}
	return nil
}

// Gaussian returns a kernel with weights
//
//	1/(2*pi*sigma^2) * exp(-((x-ax)^2 + (y-ay)^2) / (2*sigma^2))
//
// normalized to sum to 1, where (ax, ay) is the kernel anchor.
func Gaussian(size pix.Size, sigma float64) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	} else if !(sigma > 0) {
		return Kernel{}, fmt.Errorf("gaussian sigma must be positive, got %v", sigma)
	}
	k := newKernel(size)
	a := k.Anchor()
	center := ms2.Vec{X: float32(a.W), Y: float32(a.H)}
	scale := 1 / (2 * math.Pi * sigma * sigma)
	var sum float64
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			d := ms2.Sub(ms2.Vec{X: float32(x), Y: float32(y)}, center)
			r2 := float64(ms2.Norm2(d))
			w := scale * math.Exp(-r2/(2*sigma*sigma))
			k.Weights[y*size.W+x] = w
			sum += w
		}
	}
	for i := range k.Weights {
		k.Weights[i] /= sum
	}
	return k, nil
}

// Motion returns a diagonal blur kernel: 1/width on the main diagonal (y == x), 0 elsewhere.
func Motion(size pix.Size) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	}
	k := newKernel(size)
	for i := 0; i < min(size.W, size.H); i++ {
		k.Weights[i*size.W+i] = 1 / float64(size.W)
	}
	return k, nil
}

// Box returns a kernel of uniform weights 1/(width*height).
func Box(size pix.Size) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	}
	k := newKernel(size)
	w := 1 / float64(size.Area())
	for i := range k.Weights {
		k.Weights[i] = w
	}
	return k, nil
}

// Diff returns the fixed 3x3 first difference kernel: -1 before and +1
// after the center along axis.
func Diff(axis Axis) Kernel {
	k := newKernel(pix.Size{W: 3, H: 3})
	if axis == AxisX {
		k.Weights[3] = -1
		k.Weights[5] = 1
	} else {
		k.Weights[1] = -1
		k.Weights[7] = 1
	}
	return k
}

// Prewitt returns a kernel with -1 on the leading and +1 on the trailing
// column (AxisX) or row (AxisY).
func Prewitt(size pix.Size, axis Axis) (Kernel, error) {
	return edgeKernel(size, axis, 1)
}

// Sobel is like [Prewitt] with the center cell of each edge weighted ±2.
func Sobel(size pix.Size, axis Axis) (Kernel, error) {
	return edgeKernel(size, axis, 2)
}

func edgeKernel(size pix.Size, axis Axis, centerWeight float64) (Kernel, error) {
	if err := checkSize(size); err != nil {
		return Kernel{}, err
	}
	k := newKernel(size)
	cx, cy := size.W/2, size.H/2
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			var w float64
			switch {
			case axis == AxisX && x == 0:
				w = -1
			case axis == AxisX && x == size.W-1:
				w = 1
			case axis == AxisY && y == 0:
				w = -1
			case axis == AxisY && y == size.H-1:
				w = 1
			default:
				continue
			}
			if (axis == AxisX && y == cy) || (axis == AxisY && x == cx) {
				w *= centerWeight
			}
			k.Weights[y*size.W+x] = w
		}
	}
	return k, nil
}
