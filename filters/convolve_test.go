package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/kernel"
)

func TestConvolveIdentity(t *testing.T) {
	src := randomRGB(9, 7, 1)
	id := kernel.Kernel{Width: 3, Height: 3, Weights: []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}}
	got, err := filterSame(testPool(t), src, id, false)
	require.NoError(t, err)
	assert.Equal(t, src.Pix(), got.Pix())
	assert.Equal(t, src.Dims(), got.Dims())
}

func TestConvolveWraps(t *testing.T) {
	padded := grayFrom(t, 2, 1, 200, 10)
	k := kernel.Kernel{Width: 1, Height: 1, Weights: []float64{2}}
	got, err := Convolve(nil, padded, k, pix.Size{W: 2, H: 1})
	require.NoError(t, err)
	// 400 keeps its low byte.
	assert.Equal(t, []uint8{144, 20}, got.Pix())

	k.Weights[0] = -1
	got, err = Convolve(nil, padded, k, pix.Size{W: 2, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint8{56, 246}, got.Pix())

	// Fractional sums truncate toward zero.
	k.Weights[0] = 0.999
	got, err = Convolve(nil, padded, k, pix.Size{W: 2, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint8{199, 9}, got.Pix())
}

func TestConvolveClamped(t *testing.T) {
	padded := grayFrom(t, 2, 1, 200, 10)
	k := kernel.Kernel{Width: 1, Height: 1, Weights: []float64{2}}
	got, err := ConvolveClamped(nil, padded, k, pix.Size{W: 2, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 20}, got.Pix())

	k.Weights[0] = -1
	got, err = ConvolveClamped(nil, padded, k, pix.Size{W: 2, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0}, got.Pix())
}

func TestConvolve16(t *testing.T) {
	padded, err := pix.FromPix(pix.ShapeRGB48, 1, 1, []uint16{1000, 40000, 7})
	require.NoError(t, err)
	k := kernel.Kernel{Width: 1, Height: 1, Weights: []float64{2}}
	got, err := Convolve(nil, padded, k, pix.Size{W: 1, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint16{2000, 80000 - 65536, 14}, got.Pix())

	got, err = ConvolveClamped(nil, padded, k, pix.Size{W: 1, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint16{2000, 65535, 14}, got.Pix())
}

func TestConvolveSkipsTrailingWindows(t *testing.T) {
	padded := filled(pix.ShapeGray8, 3, 3, 10)
	k, err := kernel.Box(pix.Size{W: 2, H: 2})
	require.NoError(t, err)
	k.Weights = []float64{1, 1, 1, 1}
	got, err := Convolve(nil, padded, k, pix.Size{W: 3, H: 3})
	require.NoError(t, err)
	want := []uint8{
		40, 40, 0,
		40, 40, 0,
		0, 0, 0,
	}
	assert.Equal(t, want, got.Pix())
}

func TestConvolveKernelOrder(t *testing.T) {
	// Row-major kernel index picks the sample at (dx, dy).
	padded := grayFrom(t, 3, 2,
		1, 2, 3,
		4, 5, 6,
	)
	k := kernel.Kernel{Width: 3, Height: 2, Weights: []float64{0, 0, 0, 0, 0, 1}}
	got, err := Convolve(nil, padded, k, pix.Size{W: 1, H: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint8{6}, got.Pix())
}

func TestConvolveBadArgs(t *testing.T) {
	padded := filled(pix.ShapeGray8, 3, 3, 1)
	_, err := Convolve(nil, padded, kernel.Kernel{Width: 2, Height: 2, Weights: []float64{1}}, pix.Size{W: 1, H: 1})
	assert.ErrorIs(t, err, ErrBadKernel)
	_, err = Convolve(nil, padded, kernel.Diff(kernel.AxisX), pix.Size{})
	assert.ErrorIs(t, err, ErrEmptyOutput)
	_, err = Convolve[uint8](nil, nil, kernel.Diff(kernel.AxisX), pix.Size{W: 1, H: 1})
	assert.ErrorIs(t, err, pix.ErrNilImage)
}

func TestConvolveParallelMatchesSequential(t *testing.T) {
	src := randomRGB(37, 23, 7)
	k, err := kernel.Gaussian(pix.Size{W: 5, H: 3}, 1.1)
	require.NoError(t, err)
	seq, err := filterSame(nil, src, k, false)
	require.NoError(t, err)
	par, err := filterSame(testPool(t), src, k, false)
	require.NoError(t, err)
	assert.Equal(t, seq.Pix(), par.Pix())
}

func BenchmarkGaussian(b *testing.B) {
	pool := testPool(b)
	src := randomRGB(640, 480, 1)
	size := pix.Size{W: 5, H: 5}
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := Gaussian(pool, src, size, kernel.DefaultSigma); err != nil {
			b.Fatal(err)
		}
	}
}
