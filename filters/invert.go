package filters

import (
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

// Invert returns the negative of an 8 bit RGB or gray image.
func Invert(pool *workerpool.Pool, src *pix.Buffer[uint8]) (*pix.Buffer[uint8], error) {
	if err := pix.Validate(src, shapes8...); err != nil {
		return nil, err
	}
	return mapSame(pool, src, func(dst, src []uint8) {
		for i := 0; i < len(src); i++ {
			dst[i] = 255 - src[i]
		}
	}), nil
}
