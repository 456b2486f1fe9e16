package filters

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/kernel"
)

var (
	defaultKernel  = pix.Size{W: 3, H: 3}
	defaultPooling = pix.Size{W: 8, H: 8}
)

// registry maps operation names to constructors returning filters with
// default parameters.
var registry = map[string]func() *Op{
	"grayscale":         func() *Op { return NewGrayscale(GrayscaleLuminance) },
	"gray2rgb":          NewGrayToRGB,
	"invert":            NewInvert,
	"rgb2bgr":           NewRGBToBGR,
	"rgb2hsv":           NewRGBToHSV,
	"hsv2rgb":           NewHSVToRGB,
	"inverse_hue":       NewInverseHue,
	"complementary":     NewComplementaryColor,
	"color_subtraction": func() *Op { return NewColorSubtraction(4) },
	"threshold":         func() *Op { return NewBinaryThreshold(DefaultThreshold, ThresholdAbove) },
	"otsu":              NewOtsuThreshold,
	"gaussian":          func() *Op { return NewGaussian(defaultKernel, kernel.DefaultSigma) },
	"motion":            func() *Op { return NewMotion(defaultKernel) },
	"smoothing":         func() *Op { return NewSmoothing(defaultKernel) },
	"median":            func() *Op { return NewMedian(defaultKernel) },
	"maxmin":            func() *Op { return NewMaxMin(defaultKernel) },
	"diff":              func() *Op { return NewDiff(kernel.AxisX) },
	"prewitt":           func() *Op { return NewPrewitt(defaultKernel, kernel.AxisX) },
	"sobel":             func() *Op { return NewSobel(defaultKernel, kernel.AxisX) },
	"average_pooling":   func() *Op { return NewAveragePooling(defaultPooling, pix.Size{}, defaultPooling) },
	"max_pooling":       func() *Op { return NewMaxPooling(defaultPooling, pix.Size{}, defaultPooling) },
}

// New returns a fresh filter with default parameters for the named operation.
func New(name string) (*Op, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", name)
	}
	return ctor(), nil
}

// Names returns the registered operation names in lexical order.
func Names() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}
