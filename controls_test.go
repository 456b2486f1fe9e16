package pix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMode int

const (
	modeA testMode = iota
	modeB
)

func (m testMode) String() string {
	if m == modeB {
		return "b"
	}
	return "a"
}

func TestControlOrderedChangeValue(t *testing.T) {
	var seen int
	c := &ControlOrdered[int]{
		Name:     "Kernel Width",
		Value:    3,
		Min:      1,
		Max:      31,
		Step:     2,
		OnChange: func(v int) error { seen = v; return nil },
	}
	assert.Equal(t, "kernel_width", ControlKey(c))

	require.NoError(t, c.ChangeValue(5))
	assert.Equal(t, 5, c.ActualValue())
	assert.Equal(t, 5, seen)

	// Decoders hand out int64 and float64.
	require.NoError(t, c.ChangeValue(int64(7)))
	require.NoError(t, c.ChangeValue(9.0))
	assert.Equal(t, 9, c.Value)

	assert.Error(t, c.ChangeValue(2.5), "fractional value must not truncate")
	assert.Error(t, c.ChangeValue(64), "out of range")
	assert.Error(t, c.ChangeValue("5"))
	assert.Equal(t, 9, c.Value)
}

func TestControlOrderedOnChangeError(t *testing.T) {
	c := &ControlOrdered[float64]{
		Name: "Sigma", Value: 1.3, Min: 0, Max: 10,
		OnChange: func(v float64) error {
			if v == 0 {
				return errors.New("zero sigma")
			}
			return nil
		},
	}
	assert.Error(t, c.ChangeValue(0))
	assert.Equal(t, 1.3, c.Value)
	require.NoError(t, c.ChangeValue(2))
	assert.Equal(t, 2.0, c.Value)
}

func TestControlEnumChangeValue(t *testing.T) {
	var seen testMode
	c := &ControlEnum[testMode]{
		Name:        "Mode",
		Value:       modeA,
		ValidValues: []testMode{modeA, modeB},
		OnChange:    func(m testMode) error { seen = m; return nil },
	}
	require.NoError(t, c.ChangeValue(modeB))
	assert.Equal(t, modeB, seen)

	require.NoError(t, c.ChangeValue("A"))
	assert.Equal(t, modeA, c.ActualValue())

	assert.Error(t, c.ChangeValue("c"))
	assert.Error(t, c.ChangeValue(testMode(7)))
	assert.Error(t, c.ChangeValue(1))
}
