package pix

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/tech-kind/pix/workerpool"
)

var (
	// ErrNilImage is returned when an operation receives no source image.
	ErrNilImage = errors.New("nil image")
	// ErrEmptyImage is returned for images with a zero dimension.
	ErrEmptyImage = errors.New("empty image")
	// ErrShapeMismatch is returned when an image's pixel shape is not accepted by an operation.
	ErrShapeMismatch = errors.New("pixel shape mismatch")
)

// Image is the read side of every pixel buffer variant.
// Operations that accept several variants take an Image and type switch on the concrete [Buffer].
type Image interface {
	// Dims returns information on in-memory image structure.
	Dims() Dims
}

// Filter is a single pixel operation with editable parameters.
//
// Multi-step effects such as the complementary color filter are
// implemented by composing several operations inside Process.
type Filter interface {
	// ShapeIO returns expected output and input [Shape] of the filter.
	// output shape MUST match the shape of the image returned by Process.
	// Many filters reporting a ShapeRGB888 input also accept ShapeGray8.
	// Those that report ShapeRGB888 for both then return ShapeGray8.
	ShapeIO() (output, input Shape)
	// Process allocates and returns a new image. src is never modified.
	// Work is spread over pool which may be nil for sequential execution.
	Process(pool *workerpool.Pool, src Image) (Image, error)
	// Controls returns the actual controls of the filter.
	// Controls should remain valid even after calling [Control.ChangeValue]
	// and their [Control.ActualValue] return the updated value.
	Controls() []Control
}

type Shape int

const (
	shapeUndefined Shape = iota // undefined
	ShapeRGB888                 // rgb888
	ShapeGray8                  // gray8
	// ShapeRGB48 is three 16 bit channels. It carries HSV triples.
	ShapeRGB48 // rgb48
)

func (sh Shape) BitsPerPixel() (bits int) {
	switch sh {
	default:
		bits = -1
	case ShapeRGB888:
		bits = 24
	case ShapeGray8:
		bits = 8
	case ShapeRGB48:
		bits = 48
	}
	return bits
}

// Channels returns the number of channels per pixel or -1 for unknown shapes.
func (sh Shape) Channels() int {
	switch sh {
	case ShapeRGB888, ShapeRGB48:
		return 3
	case ShapeGray8:
		return 1
	}
	return -1
}

// BitsPerChannel returns the storage width of a single channel.
func (sh Shape) BitsPerChannel() int {
	ch := sh.Channels()
	if ch < 1 {
		return -1
	}
	return sh.BitsPerPixel() / ch
}

func (sh Shape) String() string {
	switch sh {
	case ShapeRGB888:
		return "rgb888"
	case ShapeGray8:
		return "gray8"
	case ShapeRGB48:
		return "rgb48"
	}
	return "undefined"
}

// Size is a width/height pair used for kernels, padding and strides.
type Size struct {
	W int
	H int
}

func (s Size) Area() int { return s.W * s.H }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

type Dims struct {
	Width  int
	Height int
	// Stride is the number of channel elements between the starts of two consecutive rows.
	Stride int
	Shape  Shape
}

func (d Dims) Validate() error {
	ch := d.Shape.Channels()
	if d.Height <= 0 || d.Width <= 0 {
		return ErrEmptyImage
	} else if ch < 1 {
		return errors.New("bad pixel shape")
	} else if d.Width*ch > d.Stride {
		return errors.New("stride smaller than pixel row size")
	}
	return nil
}

func (d Dims) NumPixels() int64 {
	return int64(d.Height) * int64(d.Width)
}

// Size returns the number of channel elements needed to hold the image.
func (d Dims) Size() int64 {
	if d.Height == 0 || d.Width == 0 {
		return 0
	}
	return int64(d.Height-1)*int64(d.Stride) + int64(d.SizeRow())
}

// SizeRow returns the number of channel elements of a single row without stride padding.
func (d Dims) SizeRow() int {
	return d.Width * d.Shape.Channels()
}

// Bounds returns the image width and height as a [Size].
func (d Dims) Bounds() Size {
	return Size{W: d.Width, H: d.Height}
}

// Channel is the storage type of a single pixel channel.
type Channel interface {
	~uint8 | ~uint16
}

// MaxValue returns the largest value representable by a channel of type T.
func MaxValue[T Channel]() T {
	return ^T(0)
}

// Buffer is a flat row-major array of fixed-channel pixels.
// Buffers are treated as immutable once returned by an operation;
// every operation allocates a new Buffer for its result.
type Buffer[T Channel] struct {
	dims Dims
	pix  []T
}

// NewBuffer allocates a zeroed buffer. It panics if the shape's channel
// width does not match T, which is a programming error.
func NewBuffer[T Channel](shape Shape, width, height int) *Buffer[T] {
	d := Dims{Width: width, Height: height, Stride: width * shape.Channels(), Shape: shape}
	if err := checkChannelWidth[T](shape); err != nil {
		panic(err)
	}
	return &Buffer[T]{dims: d, pix: make([]T, max(d.Size(), 0))}
}

// NewRGB8 allocates a zeroed 3-channel 8 bit buffer.
func NewRGB8(width, height int) *Buffer[uint8] {
	return NewBuffer[uint8](ShapeRGB888, width, height)
}

// NewGray8 allocates a zeroed 1-channel 8 bit buffer.
func NewGray8(width, height int) *Buffer[uint8] {
	return NewBuffer[uint8](ShapeGray8, width, height)
}

// NewRGB16 allocates a zeroed 3-channel 16 bit buffer.
func NewRGB16(width, height int) *Buffer[uint16] {
	return NewBuffer[uint16](ShapeRGB48, width, height)
}

// FromPix wraps pix as an image of the given shape. pix is not copied.
// The slice must hold exactly width*height*channels elements.
func FromPix[T Channel](shape Shape, width, height int, pix []T) (*Buffer[T], error) {
	if err := checkChannelWidth[T](shape); err != nil {
		return nil, err
	}
	d := Dims{Width: width, Height: height, Stride: width * shape.Channels(), Shape: shape}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if int64(len(pix)) != d.Size() {
		return nil, fmt.Errorf("pixel data length %d does not match %s image %dx%d", len(pix), shape, width, height)
	}
	return &Buffer[T]{dims: d, pix: pix}, nil
}

func checkChannelWidth[T Channel](shape Shape) error {
	var zero T
	bits := shape.BitsPerChannel()
	if bits < 1 {
		return errors.New("bad pixel shape")
	} else if bits != int(unsafe.Sizeof(zero))*8 {
		return fmt.Errorf("%s needs %d bit channels, got %T: %w", shape, bits, zero, ErrShapeMismatch)
	}
	return nil
}

// Dims implements [Image].
func (b *Buffer[T]) Dims() Dims { return b.dims }

// Pix returns the underlying pixel data in row-major channel-interleaved order.
func (b *Buffer[T]) Pix() []T { return b.pix }

// Row returns the channel elements of row y.
func (b *Buffer[T]) Row(y int) []T {
	off := y * b.dims.Stride
	return b.pix[off : off+b.dims.SizeRow()]
}

// At returns the channels of the pixel at (x, y).
func (b *Buffer[T]) At(x, y int) []T {
	ch := b.dims.Shape.Channels()
	off := y*b.dims.Stride + x*ch
	return b.pix[off : off+ch : off+ch]
}

// Set writes the channels of the pixel at (x, y).
// It is meant for building buffers before they are handed to an operation.
func (b *Buffer[T]) Set(x, y int, channels ...T) {
	copy(b.At(x, y), channels)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer[T]) Clone() *Buffer[T] {
	pix := make([]T, len(b.pix))
	copy(pix, b.pix)
	return &Buffer[T]{dims: b.dims, pix: pix}
}

// Validate checks that b is non-nil, well formed and of one of the accepted shapes.
func Validate[T Channel](b *Buffer[T], accepted ...Shape) error {
	if b == nil {
		return ErrNilImage
	}
	if err := b.dims.Validate(); err != nil {
		return err
	}
	if int64(len(b.pix)) < b.dims.Size() {
		return errors.New("pixel buffer too small to represent complete image")
	}
	if len(accepted) == 0 {
		return nil
	}
	for _, sh := range accepted {
		if b.dims.Shape == sh {
			return nil
		}
	}
	return fmt.Errorf("got %s, want one of %v: %w", b.dims.Shape, accepted, ErrShapeMismatch)
}
