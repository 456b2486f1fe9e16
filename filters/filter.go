package filters

import (
	"errors"
	"fmt"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/kernel"
	"github.com/tech-kind/pix/workerpool"
)

var errNilApply = errors.New("nil Apply function")

// Op adapts one of the package operations to [pix.Filter]. Parameters are
// captured by Apply and edited through Ctrls, so a changed control takes
// effect on the next Process call.
type Op struct {
	Name  string
	In    pix.Shape
	Out   pix.Shape
	Apply func(pool *workerpool.Pool, src pix.Image) (pix.Image, error)
	Ctrls []pix.Control
}

// ShapeIO implements [pix.Filter].
func (f *Op) ShapeIO() (output, input pix.Shape) {
	return f.Out, f.In
}

// Controls implements [pix.Filter].
func (f *Op) Controls() []pix.Control {
	return f.Ctrls
}

// Control returns the control whose [pix.ControlKey] is key.
func (f *Op) Control(key string) (pix.Control, bool) {
	for _, c := range f.Ctrls {
		if pix.ControlKey(c) == key {
			return c, true
		}
	}
	return nil, false
}

// Process implements [pix.Filter].
func (f *Op) Process(pool *workerpool.Pool, src pix.Image) (pix.Image, error) {
	if f.Apply == nil {
		return nil, errNilApply
	} else if src == nil {
		return nil, pix.ErrNilImage
	}
	return f.Apply(pool, src)
}

func (f *Op) String() string { return f.Name }

func buffer8(img pix.Image) (*pix.Buffer[uint8], error) {
	b, ok := img.(*pix.Buffer[uint8])
	if !ok {
		return nil, fmt.Errorf("%T is not an 8 bit buffer: %w", img, pix.ErrShapeMismatch)
	}
	return b, nil
}

func buffer16(img pix.Image) (*pix.Buffer[uint16], error) {
	b, ok := img.(*pix.Buffer[uint16])
	if !ok {
		return nil, fmt.Errorf("%T is not a 16 bit buffer: %w", img, pix.ErrShapeMismatch)
	}
	return b, nil
}

// result keeps a failed operation from returning a non-nil [pix.Image]
// holding a nil buffer.
func result[T pix.Channel](b *pix.Buffer[T], err error) (pix.Image, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

func apply8[T pix.Channel](fn func(*workerpool.Pool, *pix.Buffer[uint8]) (*pix.Buffer[T], error)) func(*workerpool.Pool, pix.Image) (pix.Image, error) {
	return func(pool *workerpool.Pool, src pix.Image) (pix.Image, error) {
		b, err := buffer8(src)
		if err != nil {
			return nil, err
		}
		out, err := fn(pool, b)
		return result(out, err)
	}
}

func apply16[T pix.Channel](fn func(*workerpool.Pool, *pix.Buffer[uint16]) (*pix.Buffer[T], error)) func(*workerpool.Pool, pix.Image) (pix.Image, error) {
	return func(pool *workerpool.Pool, src pix.Image) (pix.Image, error) {
		b, err := buffer16(src)
		if err != nil {
			return nil, err
		}
		out, err := fn(pool, b)
		return result(out, err)
	}
}

// NewGrayscale creates a filter converting RGB to single channel gray.
func NewGrayscale(mode GrayscaleMode) *Op {
	return &Op{
		Name: "grayscale",
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeGray8,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return GrayscaleWith(pool, src, mode)
		}),
		Ctrls: []pix.Control{
			&pix.ControlEnum[GrayscaleMode]{
				Name:        "Conversion Mode",
				Description: "Algorithm for RGB to grayscale conversion",
				Value:       mode,
				ValidValues: []GrayscaleMode{GrayscaleLuminance, GrayscaleAverage, GrayscaleLightness},
				OnChange: func(m GrayscaleMode) error {
					mode = m // Closure will assign and Apply above pick up.
					return nil
				},
			},
		},
	}
}

func NewGrayToRGB() *Op {
	return &Op{Name: "gray2rgb", In: pix.ShapeGray8, Out: pix.ShapeRGB888, Apply: apply8(GrayToRGB)}
}

func NewInvert() *Op {
	return &Op{Name: "invert", In: pix.ShapeRGB888, Out: pix.ShapeRGB888, Apply: apply8(Invert)}
}

func NewRGBToBGR() *Op {
	return &Op{Name: "rgb2bgr", In: pix.ShapeRGB888, Out: pix.ShapeRGB888, Apply: apply8(RGBToBGR)}
}

func NewRGBToHSV() *Op {
	return &Op{Name: "rgb2hsv", In: pix.ShapeRGB888, Out: pix.ShapeRGB48, Apply: apply8(RGBToHSV)}
}

func NewHSVToRGB() *Op {
	return &Op{Name: "hsv2rgb", In: pix.ShapeRGB48, Out: pix.ShapeRGB888, Apply: apply16(HSVToRGB)}
}

func NewInverseHue() *Op {
	return &Op{Name: "inverse_hue", In: pix.ShapeRGB48, Out: pix.ShapeRGB48, Apply: apply16(InverseHue)}
}

func NewComplementaryColor() *Op {
	return &Op{Name: "complementary", In: pix.ShapeRGB888, Out: pix.ShapeRGB888, Apply: apply8(ComplementaryColor)}
}

// NewColorSubtraction creates a posterization filter with the given number of levels per channel.
func NewColorSubtraction(levels int) *Op {
	return &Op{
		Name: "color_subtraction",
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeRGB888,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return ColorSubtraction(pool, src, levels)
		}),
		Ctrls: []pix.Control{
			&pix.ControlOrdered[int]{
				Name:        "Levels",
				Description: "Number of values kept per channel",
				Value:       levels,
				Min:         1,
				Max:         256,
				Step:        1,
				OnChange:    func(v int) error { levels = v; return nil },
			},
		},
	}
}

// NewBinaryThreshold creates a fixed level binarization filter.
func NewBinaryThreshold(t int, mode ThresholdMode) *Op {
	return &Op{
		Name: "threshold",
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeGray8,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return BinaryThreshold(pool, src, t, mode)
		}),
		Ctrls: []pix.Control{
			&pix.ControlOrdered[int]{
				Name:        "Threshold",
				Description: "Gray level compared against every pixel",
				Value:       t,
				Min:         0,
				Max:         255,
				Step:        1,
				OnChange:    func(v int) error { t = v; return nil },
			},
			&pix.ControlEnum[ThresholdMode]{
				Name:        "Mode",
				Description: "Whether pixels equal to the threshold turn white (at_least) or black (above)",
				Value:       mode,
				ValidValues: []ThresholdMode{ThresholdAbove, ThresholdAtLeast},
				OnChange:    func(m ThresholdMode) error { mode = m; return nil },
			},
		},
	}
}

func NewOtsuThreshold() *Op {
	return &Op{Name: "otsu", In: pix.ShapeRGB888, Out: pix.ShapeGray8, Apply: apply8(OtsuThreshold)}
}

// NewGaussian creates a Gaussian blur filter.
func NewGaussian(size pix.Size, sigma float64) *Op {
	ctrls := sizeControls("Kernel", "kernel window", &size, 1)
	ctrls = append(ctrls, &pix.ControlOrdered[float64]{
		Name:        "Sigma",
		Description: "Standard deviation of the Gaussian in pixels",
		Value:       sigma,
		Min:         0.1,
		Max:         50,
		Step:        0.1,
		OnChange:    func(v float64) error { sigma = v; return nil },
	})
	return &Op{
		Name: "gaussian",
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeRGB888,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return Gaussian(pool, src, size, sigma)
		}),
		Ctrls: ctrls,
	}
}

func NewMotion(size pix.Size) *Op {
	return windowOp("motion", pix.ShapeRGB888, size, Motion)
}

func NewSmoothing(size pix.Size) *Op {
	return windowOp("smoothing", pix.ShapeRGB888, size, Smoothing)
}

func NewMedian(size pix.Size) *Op {
	return windowOp("median", pix.ShapeRGB888, size, Median)
}

func NewMaxMin(size pix.Size) *Op {
	return windowOp("maxmin", pix.ShapeGray8, size, MaxMin)
}

// NewDiff creates a first difference edge filter.
func NewDiff(axis kernel.Axis) *Op {
	return &Op{
		Name: "diff",
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeGray8,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return Diff(pool, src, axis)
		}),
		Ctrls: []pix.Control{axisControl(&axis)},
	}
}

func NewPrewitt(size pix.Size, axis kernel.Axis) *Op {
	return edgeOp("prewitt", size, axis, Prewitt)
}

func NewSobel(size pix.Size, axis kernel.Axis) *Op {
	return edgeOp("sobel", size, axis, Sobel)
}

func NewAveragePooling(kernel, padding, stride pix.Size) *Op {
	return poolingOp("average_pooling", kernel, padding, stride, AveragePooling)
}

func NewMaxPooling(kernel, padding, stride pix.Size) *Op {
	return poolingOp("max_pooling", kernel, padding, stride, MaxPooling)
}

type sizeFunc func(*workerpool.Pool, *pix.Buffer[uint8], pix.Size) (*pix.Buffer[uint8], error)

func windowOp(name string, out pix.Shape, size pix.Size, fn sizeFunc) *Op {
	return &Op{
		Name: name,
		In:   pix.ShapeRGB888,
		Out:  out,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return fn(pool, src, size)
		}),
		Ctrls: sizeControls("Kernel", "kernel window", &size, 1),
	}
}

func edgeOp(name string, size pix.Size, axis kernel.Axis, fn func(*workerpool.Pool, *pix.Buffer[uint8], pix.Size, kernel.Axis) (*pix.Buffer[uint8], error)) *Op {
	return &Op{
		Name: name,
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeGray8,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return fn(pool, src, size, axis)
		}),
		Ctrls: append(sizeControls("Kernel", "kernel window", &size, 1), axisControl(&axis)),
	}
}

func poolingOp(name string, kernel, padding, stride pix.Size, fn func(*workerpool.Pool, *pix.Buffer[uint8], pix.Size, pix.Size, pix.Size) (*pix.Buffer[uint8], error)) *Op {
	var ctrls []pix.Control
	ctrls = append(ctrls, sizeControls("Kernel", "pooling window", &kernel, 1)...)
	ctrls = append(ctrls, sizeControls("Padding", "zero border", &padding, 0)...)
	ctrls = append(ctrls, sizeControls("Stride", "step between windows", &stride, 1)...)
	return &Op{
		Name: name,
		In:   pix.ShapeRGB888,
		Out:  pix.ShapeRGB888,
		Apply: apply8(func(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
			return fn(pool, src, kernel, padding, stride)
		}),
		Ctrls: ctrls,
	}
}

// maxControlSize bounds every size control.
const maxControlSize = 64

// sizeControls returns width and height controls editing *size.
func sizeControls(prefix, what string, size *pix.Size, minValue int) []pix.Control {
	return []pix.Control{
		&pix.ControlOrdered[int]{
			Name:        prefix + " Width",
			Description: "Width of the " + what,
			Value:       size.W,
			Min:         minValue,
			Max:         maxControlSize,
			Step:        1,
			OnChange:    func(v int) error { size.W = v; return nil },
		},
		&pix.ControlOrdered[int]{
			Name:        prefix + " Height",
			Description: "Height of the " + what,
			Value:       size.H,
			Min:         minValue,
			Max:         maxControlSize,
			Step:        1,
			OnChange:    func(v int) error { size.H = v; return nil },
		},
	}
}

func axisControl(axis *kernel.Axis) pix.Control {
	return &pix.ControlEnum[kernel.Axis]{
		Name:        "Axis",
		Description: "Direction of the intensity change to detect",
		Value:       *axis,
		ValidValues: []kernel.Axis{kernel.AxisX, kernel.AxisY},
		OnChange:    func(a kernel.Axis) error { *axis = a; return nil },
	}
}
