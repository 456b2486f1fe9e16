package kernel

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-kind/pix"
)

func TestGaussianNormalized(t *testing.T) {
	for _, size := range []pix.Size{{W: 1, H: 1}, {W: 3, H: 3}, {W: 5, H: 5}, {W: 4, H: 4}, {W: 3, H: 7}, {W: 9, H: 2}} {
		for _, sigma := range []float64{0.3, 1, DefaultSigma, 4.5} {
			t.Run(fmt.Sprintf("%s_sigma%v", size, sigma), func(t *testing.T) {
				k, err := Gaussian(size, sigma)
				require.NoError(t, err)
				require.NoError(t, k.Validate())
				assert.InDelta(t, 1.0, k.Sum(), 1e-9)
			})
		}
	}
}

func TestGaussianShape(t *testing.T) {
	k, err := Gaussian(pix.Size{W: 5, H: 5}, DefaultSigma)
	require.NoError(t, err)
	center := k.At(2, 2)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if x == 2 && y == 2 {
				continue
			}
			assert.Less(t, k.At(x, y), center, "(%d,%d)", x, y)
		}
	}
	// Radial symmetry.
	assert.InDelta(t, k.At(0, 1), k.At(1, 0), 1e-15)
	assert.InDelta(t, k.At(4, 3), k.At(0, 1), 1e-15)

	// Unnormalized ratio between center and a direct neighbor is exp(-1/(2*sigma^2)).
	want := math.Exp(-1 / (2 * DefaultSigma * DefaultSigma))
	assert.InDelta(t, want, k.At(3, 2)/center, 1e-12)
}

func TestGaussianBadArgs(t *testing.T) {
	_, err := Gaussian(pix.Size{W: 0, H: 3}, 1)
	assert.Error(t, err)
	_, err = Gaussian(pix.Size{W: 3, H: 3}, 0)
	assert.Error(t, err)
	_, err = Gaussian(pix.Size{W: 3, H: 3}, math.NaN())
	assert.Error(t, err)
}

func TestMotion(t *testing.T) {
	k, err := Motion(pix.Size{W: 3, H: 3})
	require.NoError(t, err)
	third := 1.0 / 3
	want := []float64{
		third, 0, 0,
		0, third, 0,
		0, 0, third,
	}
	if diff := cmp.Diff(want, k.Weights); diff != "" {
		t.Errorf("Motion weights mismatch (-want +got):\n%s", diff)
	}
}

func TestBox(t *testing.T) {
	k, err := Box(pix.Size{W: 2, H: 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, k.Sum(), 1e-12)
	for _, w := range k.Weights {
		assert.Equal(t, 1.0/6, w)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		axis Axis
		want []float64
	}{
		{AxisX, []float64{
			0, 0, 0,
			-1, 0, 1,
			0, 0, 0,
		}},
		{AxisY, []float64{
			0, -1, 0,
			0, 0, 0,
			0, 1, 0,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			k := Diff(tt.axis)
			assert.Equal(t, pix.Size{W: 3, H: 3}, k.Size())
			if diff := cmp.Diff(tt.want, k.Weights); diff != "" {
				t.Errorf("Diff(%v) mismatch (-want +got):\n%s", tt.axis, diff)
			}
		})
	}
}

func TestPrewittSobel(t *testing.T) {
	size := pix.Size{W: 3, H: 3}
	tests := []struct {
		name  string
		build func(pix.Size, Axis) (Kernel, error)
		axis  Axis
		want  []float64
	}{
		{"prewitt_x", Prewitt, AxisX, []float64{
			-1, 0, 1,
			-1, 0, 1,
			-1, 0, 1,
		}},
		{"prewitt_y", Prewitt, AxisY, []float64{
			-1, -1, -1,
			0, 0, 0,
			1, 1, 1,
		}},
		{"sobel_x", Sobel, AxisX, []float64{
			-1, 0, 1,
			-2, 0, 2,
			-1, 0, 1,
		}},
		{"sobel_y", Sobel, AxisY, []float64{
			-1, -2, -1,
			0, 0, 0,
			1, 2, 1,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := tt.build(size, tt.axis)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, k.Weights); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			assert.Zero(t, k.Sum())
		})
	}
}

func TestSobel5x5(t *testing.T) {
	k, err := Sobel(pix.Size{W: 5, H: 5}, AxisX)
	require.NoError(t, err)
	for y := 0; y < 5; y++ {
		wantEdge := 1.0
		if y == 2 {
			wantEdge = 2
		}
		assert.Equal(t, -wantEdge, k.At(0, y))
		assert.Equal(t, wantEdge, k.At(4, y))
		for x := 1; x < 4; x++ {
			assert.Zero(t, k.At(x, y))
		}
	}
}

func TestAnchor(t *testing.T) {
	k, err := Box(pix.Size{W: 4, H: 5})
	require.NoError(t, err)
	assert.Equal(t, pix.Size{W: 2, H: 2}, k.Anchor())
	assert.Equal(t, pix.Size{W: 1, H: 1}, Diff(AxisX).Anchor())
}

func TestValidate(t *testing.T) {
	assert.Error(t, Kernel{Width: 2, Height: 2, Weights: make([]float64, 3)}.Validate())
	assert.Error(t, Kernel{}.Validate())
	assert.NoError(t, Diff(AxisX).Validate())
}
