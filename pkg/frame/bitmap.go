package frame

import (
	"fmt"
	"image"

	"github.com/tauraamui/xerror"
)

type PixelFormat int

const (
	Unknown PixelFormat = iota
	Bgra8
	Rgba8
	Gray8
	Gray16
)

func (f PixelFormat) String() string {
	switch f {
	case Bgra8:
		return "Bgra8"
	case Rgba8:
		return "Rgba8"
	case Gray8:
		return "Gray8"
	case Gray16:
		return "Gray16"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// BytesPerPixel returns 0 for formats with no fixed pixel size.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Bgra8, Rgba8:
		return 4
	case Gray16:
		return 2
	case Gray8:
		return 1
	default:
		return 0
	}
}

type AlphaMode int

const (
	Premultiplied AlphaMode = iota
	Straight
	Ignore
)

// Bitmap is a single plane pixel buffer. Rows are Stride bytes apart and
// Stride may be larger than Width*BytesPerPixel.
type Bitmap struct {
	Format PixelFormat
	Alpha  AlphaMode
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewBitmap allocates a tightly packed bitmap.
func NewBitmap(format PixelFormat, width, height int) *Bitmap {
	stride := width * format.BytesPerPixel()
	return &Bitmap{
		Format: format,
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// NewBitmapWithStride allocates a bitmap whose rows are padded to stride bytes.
func NewBitmapWithStride(format PixelFormat, width, height, stride int) *Bitmap {
	if packed := width * format.BytesPerPixel(); stride < packed {
		stride = packed
	}
	return &Bitmap{
		Format: format,
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// Row returns the pixel bytes of row y without the stride padding.
func (b *Bitmap) Row(y int) []byte {
	start := y * b.Stride
	return b.Pix[start : start+b.Width*b.Format.BytesPerPixel()]
}

func (b *Bitmap) Copy() *Bitmap {
	if b == nil {
		return nil
	}
	c := *b
	c.Pix = make([]byte, len(b.Pix))
	copy(c.Pix, b.Pix)
	return &c
}

// Image exposes a premultiplied Bgra8 bitmap as an image.RGBA so it can be
// handed to standard encoders.
func (b *Bitmap) Image() (image.Image, error) {
	if b.Format != Bgra8 {
		return nil, xerror.Errorf("cannot convert %s bitmap to image", b.Format)
	}
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		src := b.Row(y)
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := 0; x < len(src); x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = src[x+3]
		}
	}
	return img, nil
}
