package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

func bimodal(t testing.TB, w, h int, lo, hi uint8) *pix.Buffer[uint8] {
	t.Helper()
	img := pix.NewGray8(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if x >= w/2 {
				v = hi
			}
			img.Set(x, y, v)
		}
	}
	return img
}

func TestBinaryThresholdBoundary(t *testing.T) {
	src := grayFrom(t, 3, 1, 127, 128, 129)
	above, err := BinaryThreshold(nil, src, 128, ThresholdAbove)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 255}, above.Pix())

	atLeast, err := BinaryThreshold(nil, src, 128, ThresholdAtLeast)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 255}, atLeast.Pix())
}

func TestBinaryThresholdColor(t *testing.T) {
	src := pix.NewRGB8(2, 1)
	src.Set(0, 0, 255, 255, 255)
	src.Set(1, 0, 200, 0, 0) // Luminance 43.
	got, err := BinaryThreshold(testPool(t), src, DefaultThreshold, ThresholdAbove)
	require.NoError(t, err)
	assert.Equal(t, pix.ShapeGray8, got.Dims().Shape)
	assert.Equal(t, []uint8{255, 0}, got.Pix())
}

func TestBinaryThresholdBadArgs(t *testing.T) {
	src := pix.NewGray8(1, 1)
	for _, th := range []int{-1, 256} {
		_, err := BinaryThreshold(nil, src, th, ThresholdAbove)
		assert.ErrorIs(t, err, ErrBadThreshold)
	}
	_, err := BinaryThreshold(nil, src, 3, ThresholdMode(9))
	assert.Error(t, err)
	_, err = BinaryThreshold(nil, nil, 3, ThresholdAbove)
	assert.ErrorIs(t, err, pix.ErrNilImage)
}

func TestOtsuBimodal(t *testing.T) {
	src := bimodal(t, 16, 9, 10, 200)
	for _, workers := range []int{0, 1, 3, 8} {
		var pool *workerpool.Pool
		if workers > 0 {
			pool = workerpool.New(workers)
		}
		level, err := OtsuLevel(pool, src)
		pool.Close()
		require.NoError(t, err)
		assert.Greater(t, level, 10)
		assert.Less(t, level, 200)
		// Every split between the modes ties. The lowest one wins.
		assert.Equal(t, 11, level)
	}

	got, err := OtsuThreshold(testPool(t), src)
	require.NoError(t, err)
	want := bimodal(t, 16, 9, 0, 255)
	assert.Equal(t, want.Pix(), got.Pix())
}

func TestOtsuUniform(t *testing.T) {
	src := filled(pix.ShapeGray8, 4, 4, 77)
	level, err := OtsuLevel(nil, src)
	require.NoError(t, err)
	assert.Zero(t, level)

	got, err := OtsuThreshold(nil, src)
	require.NoError(t, err)
	assert.Equal(t, filled(pix.ShapeGray8, 4, 4, 255).Pix(), got.Pix())
}

func TestOtsuColorMatchesGray(t *testing.T) {
	pool := testPool(t)
	src := randomRGB(20, 20, 21)
	gray, err := Grayscale(pool, src)
	require.NoError(t, err)
	want, err := OtsuLevel(pool, gray)
	require.NoError(t, err)
	got, err := OtsuLevel(pool, src)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, got, otsuFirst)
	assert.Less(t, got, otsuLast)
}

func TestHistogram(t *testing.T) {
	src := grayFrom(t, 3, 2, 0, 5, 5, 255, 5, 0)
	hist := histogram(testPool(t), src)
	assert.Equal(t, 2, hist[0])
	assert.Equal(t, 3, hist[5])
	assert.Equal(t, 1, hist[255])
}

func TestBetweenClassVariance(t *testing.T) {
	var hist [256]int
	hist[10] = 2
	hist[200] = 2
	// w0 = w1 = 0.5, (m0-m1)^2 = 190^2.
	assert.InDelta(t, 0.25*190*190, betweenClassVariance(&hist, 100, 4), 1e-9)
	assert.Zero(t, betweenClassVariance(&hist, 5, 4))
	assert.Zero(t, betweenClassVariance(&hist, 250, 4))
}

func BenchmarkOtsuLevel(b *testing.B) {
	pool := testPool(b)
	src := randomRGB(640, 480, 3)
	gray, err := Grayscale(pool, src)
	require.NoError(b, err)
	b.ResetTimer()
	for range b.N {
		if _, err := OtsuLevel(pool, gray); err != nil {
			b.Fatal(err)
		}
	}
}
