package filters

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

func testPool(t testing.TB) *workerpool.Pool {
	t.Helper()
	pool := workerpool.New(4)
	t.Cleanup(pool.Close)
	return pool
}

func randomRGB(w, h int, seed uint64) *pix.Buffer[uint8] {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := pix.NewRGB8(w, h)
	for i := range img.Pix() {
		img.Pix()[i] = uint8(rng.UintN(256))
	}
	return img
}

func grayFrom(t testing.TB, w, h int, values ...uint8) *pix.Buffer[uint8] {
	t.Helper()
	img, err := pix.FromPix(pix.ShapeGray8, w, h, values)
	require.NoError(t, err)
	return img
}

func filled(shape pix.Shape, w, h int, v uint8) *pix.Buffer[uint8] {
	img := pix.NewBuffer[uint8](shape, w, h)
	for i := range img.Pix() {
		img.Pix()[i] = v
	}
	return img
}
