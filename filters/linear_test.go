package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/kernel"
)

func TestSmoothing(t *testing.T) {
	src := filled(pix.ShapeGray8, 3, 3, 90)
	got, err := Smoothing(testPool(t), src, pix.Size{W: 3, H: 3})
	require.NoError(t, err)
	want := []uint8{
		40, 60, 40,
		60, 90, 60,
		40, 60, 40,
	}
	assert.Equal(t, want, got.Pix())
}

func TestSmoothingMatchesBoxKernel(t *testing.T) {
	// Power-of-two areas keep the box weights exact in float64.
	pool := testPool(t)
	src := randomRGB(9, 7, 3)
	for _, size := range []pix.Size{{W: 2, H: 2}, {W: 4, H: 2}, {W: 1, H: 4}} {
		k, err := kernel.Box(size)
		require.NoError(t, err)
		want, err := filterSame(pool, src, k, false)
		require.NoError(t, err)
		got, err := Smoothing(pool, src, size)
		require.NoError(t, err)
		assert.Equal(t, want.Pix(), got.Pix(), size.String())
	}
}

func TestGaussianKeepsShape(t *testing.T) {
	pool := testPool(t)
	for _, shape := range []pix.Shape{pix.ShapeRGB888, pix.ShapeGray8} {
		src := filled(shape, 6, 5, 0)
		got, err := Gaussian(pool, src, pix.Size{W: 5, H: 5}, kernel.DefaultSigma)
		require.NoError(t, err)
		assert.Equal(t, src.Dims(), got.Dims())
		assert.Equal(t, src.Pix(), got.Pix(), "black stays black")
	}
}

func TestGaussianBlursImpulse(t *testing.T) {
	src := pix.NewGray8(5, 5)
	src.Set(2, 2, 255)
	got, err := Gaussian(nil, src, pix.Size{W: 3, H: 3}, kernel.DefaultSigma)
	require.NoError(t, err)
	center := got.At(2, 2)[0]
	assert.Less(t, center, uint8(255))
	assert.Greater(t, center, got.At(1, 2)[0])
	assert.Equal(t, got.At(1, 2), got.At(3, 2))
	assert.Equal(t, got.At(2, 1), got.At(2, 3))
	assert.Zero(t, got.At(0, 0)[0])
}

func TestGaussianBadSigma(t *testing.T) {
	_, err := Gaussian(nil, pix.NewGray8(2, 2), pix.Size{W: 3, H: 3}, 0)
	assert.Error(t, err)
}

func TestMotion(t *testing.T) {
	src := pix.NewGray8(3, 3)
	src.Set(0, 0, 90)
	src.Set(1, 1, 30)
	got, err := Motion(nil, src, pix.Size{W: 2, H: 2})
	require.NoError(t, err)
	// Only the main diagonal of each window contributes.
	assert.Equal(t, uint8(60), got.At(1, 1)[0])
	assert.Equal(t, uint8(45), got.At(0, 0)[0])
	assert.Equal(t, uint8(15), got.At(2, 2)[0])
	assert.Zero(t, got.At(2, 0)[0])
}

func TestSobelVerticalEdge(t *testing.T) {
	src := grayFrom(t, 6, 3,
		0, 0, 0, 100, 100, 100,
		0, 0, 0, 100, 100, 100,
		0, 0, 0, 100, 100, 100,
	)
	got, err := Sobel(testPool(t), src, pix.Size{W: 3, H: 3}, kernel.AxisX)
	require.NoError(t, err)
	require.Equal(t, pix.ShapeGray8, got.Dims().Shape)
	for y := 0; y < 3; y++ {
		assert.Equal(t, []uint8{0, 0, 255, 255, 0, 0}, got.Row(y), "row %d", y)
	}

	got, err = Sobel(nil, src, pix.Size{W: 3, H: 3}, kernel.AxisY)
	require.NoError(t, err)
	// The zero border above row 0 reads as an upward step.
	assert.Equal(t, []uint8{0, 0, 100, 255, 255, 255}, got.Row(0))
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0}, got.Row(1))
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0}, got.Row(2))
}

func TestDiff(t *testing.T) {
	src := grayFrom(t, 4, 1, 10, 20, 40, 30)
	got, err := Diff(nil, src, kernel.AxisX)
	require.NoError(t, err)
	// right - left, negative responses clamp to zero.
	assert.Equal(t, []uint8{20, 30, 10, 0}, got.Pix())
}

func TestPrewitt(t *testing.T) {
	src := grayFrom(t, 3, 3,
		0, 0, 0,
		0, 0, 0,
		10, 10, 10,
	)
	got, err := Prewitt(nil, src, pix.Size{W: 3, H: 3}, kernel.AxisY)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0}, got.Row(0))
	assert.Equal(t, []uint8{20, 30, 20}, got.Row(1))
}

func TestEdgeOnColorMatchesGray(t *testing.T) {
	pool := testPool(t)
	src := randomRGB(11, 9, 3)
	gray, err := Grayscale(pool, src)
	require.NoError(t, err)

	fromColor, err := Sobel(pool, src, pix.Size{W: 3, H: 3}, kernel.AxisY)
	require.NoError(t, err)
	fromGray, err := Sobel(pool, gray, pix.Size{W: 3, H: 3}, kernel.AxisY)
	require.NoError(t, err)
	assert.Equal(t, fromGray.Pix(), fromColor.Pix())
	assert.Equal(t, pix.ShapeGray8, fromColor.Dims().Shape)
}

func TestLinearRejectsNil(t *testing.T) {
	_, err := Smoothing(nil, nil, pix.Size{W: 3, H: 3})
	assert.ErrorIs(t, err, pix.ErrNilImage)
	_, err = Sobel(nil, nil, pix.Size{W: 3, H: 3}, kernel.AxisX)
	assert.ErrorIs(t, err, pix.ErrNilImage)
}
