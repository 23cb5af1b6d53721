package colorize

import (
	"errors"

	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/xerror"
)

var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// TransformBitmap allocates a premultiplied Bgra8 bitmap the size of in and
// fills it one row at a time with fn. Each bitmap is walked by its own stride.
func TransformBitmap(in *frame.Bitmap, fn ScanlineFunc) *frame.Bitmap {
	out := frame.NewBitmap(frame.Bgra8, in.Width, in.Height)
	out.Alpha = frame.Premultiplied
	for y := 0; y < in.Height; y++ {
		fn(in.Width, in.Row(y), out.Row(y))
	}
	return out
}

// Depth converts a Gray16 depth frame into a pseudo coloured bitmap.
func Depth(f *frame.Frame) (*frame.Bitmap, error) {
	if f == nil || f.Bitmap == nil {
		return nil, frame.ErrNoBitmap
	}
	if f.Bitmap.Format != frame.Gray16 {
		return nil, xerror.Errorf("depth frame in %s: %w", f.Bitmap.Format, ErrUnsupportedFormat)
	}
	return TransformBitmap(f.Bitmap, DepthScanline(float32(f.DepthScale))), nil
}

// Infrared converts a Gray8 or Gray16 infrared frame into a pseudo coloured bitmap.
func Infrared(f *frame.Frame) (*frame.Bitmap, error) {
	if f == nil || f.Bitmap == nil {
		return nil, frame.ErrNoBitmap
	}
	switch f.Bitmap.Format {
	case frame.Gray8:
		return TransformBitmap(f.Bitmap, Infrared8Scanline), nil
	case frame.Gray16:
		return TransformBitmap(f.Bitmap, Infrared16Scanline), nil
	default:
		return nil, xerror.Errorf("infrared frame in %s, expected Gray8 or Gray16: %w", f.Bitmap.Format, ErrUnsupportedFormat)
	}
}

// ToBGRA returns a premultiplied Bgra8 copy of b, converting when needed.
func ToBGRA(b *frame.Bitmap) (*frame.Bitmap, error) {
	if b == nil {
		return nil, frame.ErrNoBitmap
	}
	if b.Format == frame.Bgra8 && b.Alpha == frame.Premultiplied {
		return b.Copy(), nil
	}

	var fn ScanlineFunc
	switch b.Format {
	case frame.Bgra8:
		fn = bgraScanline(b.Alpha, false)
	case frame.Rgba8:
		fn = bgraScanline(b.Alpha, true)
	case frame.Gray8:
		fn = gray8Scanline
	case frame.Gray16:
		fn = gray16Scanline
	default:
		return nil, xerror.Errorf("cannot convert %s to Bgra8: %w", b.Format, ErrUnsupportedFormat)
	}
	return TransformBitmap(b, fn), nil
}

func bgraScanline(mode frame.AlphaMode, swapRB bool) ScanlineFunc {
	return func(width int, in, out []byte) {
		for x := 0; x < width*4; x += 4 {
			b, g, r, a := in[x+0], in[x+1], in[x+2], in[x+3]
			if swapRB {
				b, r = r, b
			}
			switch mode {
			case frame.Ignore:
				a = 0xFF
			case frame.Straight:
				b = premultiply(b, a)
				g = premultiply(g, a)
				r = premultiply(r, a)
			}
			out[x+0], out[x+1], out[x+2], out[x+3] = b, g, r, a
		}
	}
}

func premultiply(c, a uint8) uint8 {
	return uint8(uint32(c) * uint32(a) / 0xFF)
}

func gray8Scanline(width int, in, out []byte) {
	for x := 0; x < width; x++ {
		v := in[x]
		ColorBGRA{B: v, G: v, R: v, A: 0xFF}.put(out[x*4:])
	}
}

func gray16Scanline(width int, in, out []byte) {
	for x := 0; x < width; x++ {
		// little endian, keep the high byte
		v := in[x*2+1]
		ColorBGRA{B: v, G: v, R: v, A: 0xFF}.put(out[x*4:])
	}
}
