package filters

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

var ErrBadThreshold = errors.New("threshold must be within 0..255")

// DefaultThreshold is the fixed binarization level used when none is configured.
const DefaultThreshold = 128

// Otsu candidate thresholds are searched over [otsuFirst, otsuLast).
const (
	otsuFirst = 1
	otsuLast  = 254
)

// ThresholdMode selects which side of the threshold value itself lands on.
type ThresholdMode int

const (
	// ThresholdAbove maps v > t to 255 and everything else, t included, to 0.
	ThresholdAbove ThresholdMode = iota
	// ThresholdAtLeast maps v < t to 0 and everything else, t included, to 255.
	ThresholdAtLeast
)

func (m ThresholdMode) String() string {
	switch m {
	case ThresholdAbove:
		return "above"
	case ThresholdAtLeast:
		return "at_least"
	default:
		return "unknown"
	}
}

func (m ThresholdMode) binarize(v uint8, t int) uint8 {
	var on bool
	if m == ThresholdAtLeast {
		on = int(v) >= t
	} else {
		on = int(v) > t
	}
	if on {
		return 255
	}
	return 0
}

// BinaryThreshold maps every pixel to 0 or 255 by comparing it against t.
// Color input is converted with [Grayscale] first. The result is grayscale.
func BinaryThreshold(pool *workerpool.Pool, src *pix.Buffer[uint8], t int, mode ThresholdMode) (*pix.Buffer[uint8], error) {
	if t < 0 || t > 255 {
		return nil, fmt.Errorf("%w: got %d", ErrBadThreshold, t)
	} else if mode != ThresholdAbove && mode != ThresholdAtLeast {
		return nil, fmt.Errorf("unknown threshold mode %d", mode)
	}
	gray, err := asGray(pool, src)
	if err != nil {
		return nil, err
	}
	return mapSame(pool, gray, func(dst, src []uint8) {
		for i, v := range src {
			dst[i] = mode.binarize(v, t)
		}
	}), nil
}

// OtsuLevel returns the threshold t in [1, 254) maximizing the between-class
// variance w0*w1*(m0-m1)^2 of the classes v < t and v >= t. Ties resolve to
// the lowest t. Images without any separable split yield 0. Color input is
// converted with [Grayscale] first.
func OtsuLevel(pool *workerpool.Pool, src *pix.Buffer[uint8]) (int, error) {
	gray, err := asGray(pool, src)
	if err != nil {
		return 0, err
	}
	hist := histogram(pool, gray)
	total := float64(gray.Dims().NumPixels())

	type candidate struct {
		t  int
		sb float64
	}
	// Each chunk writes its local best at its start index. Merging in
	// ascending order with a strict comparison keeps the first maximum
	// regardless of how work was scheduled.
	best := make([]candidate, otsuLast-otsuFirst)
	pool.ParallelFor(len(best), func(start, end int) {
		var local candidate
		for i := start; i < end; i++ {
			t := otsuFirst + i
			if sb := betweenClassVariance(&hist, t, total); sb > local.sb {
				local = candidate{t: t, sb: sb}
			}
		}
		best[start] = local
	})
	var th candidate
	for _, c := range best {
		if c.sb > th.sb {
			th = c
		}
	}
	return th.t, nil
}

// OtsuThreshold binarizes src at [OtsuLevel] with [ThresholdAtLeast].
func OtsuThreshold(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	gray, err := asGray(pool, src)
	if err != nil {
		return nil, err
	}
	t, err := OtsuLevel(pool, gray)
	if err != nil {
		return nil, err
	}
	return BinaryThreshold(pool, gray, t, ThresholdAtLeast)
}

func betweenClassVariance(hist *[256]int, t int, total float64) float64 {
	var w0, w1, m0, m1 float64
	for v, n := range hist {
		if v < t {
			w0 += float64(n)
			m0 += float64(v * n)
		} else {
			w1 += float64(n)
			m1 += float64(v * n)
		}
	}
	if w0 == 0 || w1 == 0 {
		return 0 // One class is empty.
	}
	m0 /= w0
	m1 /= w1
	w0 /= total
	w1 /= total
	d := m0 - m1
	return w0 * w1 * d * d
}

func histogram(pool *workerpool.Pool, gray *pix.Buffer[uint8]) [256]int {
	var (
		mu   sync.Mutex
		hist [256]int
	)
	pool.ParallelFor(gray.Dims().Height, func(start, end int) {
		var local [256]int
		for y := start; y < end; y++ {
			for _, v := range gray.Row(y) {
				local[v]++
			}
		}
		mu.Lock()
		for v, n := range local {
			hist[v] += n
		}
		mu.Unlock()
	})
	return hist
}
