package frame_test

import (
	"errors"
	"image"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/dragoneye/pkg/frame"
)

func TestKindString(t *testing.T) {
	is := is.New(t)
	is.Equal(frame.Color.String(), "Color")
	is.Equal(frame.Depth.String(), "Depth")
	is.Equal(frame.Infrared.String(), "Infrared")
	is.Equal(frame.Kind(7).String(), "Kind(7)")
	is.True(!frame.Kind(7).Valid())
	is.True(!frame.Kind(-1).Valid())
}

func TestFrameString(t *testing.T) {
	is := is.New(t)
	var nilFrame *frame.Frame
	is.Equal(nilFrame.String(), "<nil frame>")
	is.Equal((&frame.Frame{Kind: frame.Depth, Seq: 3}).String(), "Depth#3 (no bitmap)")
	is.Equal((&frame.Frame{Kind: frame.Color, Seq: 4, Bitmap: frame.NewBitmap(frame.Bgra8, 2, 1)}).String(), "Color#4 2x1 Bgra8")
}

func TestBitmapRowsHonourStride(t *testing.T) {
	is := is.New(t)

	b := frame.NewBitmapWithStride(frame.Gray16, 3, 2, 10)
	is.Equal(b.Stride, 10)
	is.Equal(len(b.Pix), 20)
	is.Equal(len(b.Row(1)), 6)

	b.Row(1)[0] = 0xAB
	is.Equal(b.Pix[10], byte(0xAB))

	// strides smaller than a packed row are widened
	packed := frame.NewBitmapWithStride(frame.Bgra8, 3, 1, 4)
	is.Equal(packed.Stride, 12)
}

func TestBitmapCopyIsIndependent(t *testing.T) {
	is := is.New(t)

	b := frame.NewBitmap(frame.Gray8, 2, 2)
	c := b.Copy()
	c.Pix[0] = 9

	is.Equal(b.Pix[0], byte(0))
	is.Equal(c.Width, 2)

	var none *frame.Bitmap
	is.True(none.Copy() == nil)
}

func TestBitmapImageSwapsChannels(t *testing.T) {
	is := is.New(t)

	b := frame.NewBitmapWithStride(frame.Bgra8, 1, 2, 8)
	copy(b.Row(1), []byte{1, 2, 3, 4})

	img, err := b.Image()
	is.NoErr(err)
	rgba := img.(*image.RGBA)
	is.Equal(rgba.Pix[4:8], []byte{3, 2, 1, 4})

	_, err = frame.NewBitmap(frame.Gray8, 1, 1).Image()
	is.Equal(err.Error(), "cannot convert Gray8 bitmap to image")
}

func TestIntrinsicsRoundTrip(t *testing.T) {
	intr := &frame.Intrinsics{Width: 640, Height: 480, Fx: 500, Fy: 500, Ppx: 320, Ppy: 240}
	assert.NoError(t, intr.CheckValid())

	p := intr.PixelToPoint(420, 140, 2)
	assert.Equal(t, r3.Vector{X: 0.4, Y: -0.4, Z: 2}, p)
	assert.Equal(t, r2.Point{X: 420, Y: 140}, intr.PointToPixel(p))
	assert.Equal(t, r2.Point{X: -1, Y: -1}, intr.PointToPixel(r3.Vector{X: 1}))
}

func TestIntrinsicsCheckValid(t *testing.T) {
	var missing *frame.Intrinsics
	assert.True(t, errors.Is(missing.CheckValid(), frame.ErrNoIntrinsics))
	assert.True(t, errors.Is((&frame.Intrinsics{Width: 1, Height: 1}).CheckValid(), frame.ErrNoIntrinsics))
	assert.True(t, errors.Is((&frame.Intrinsics{Width: 1, Height: 1, Fx: 1, Fy: 1, Ppx: -1}).CheckValid(), frame.ErrNoIntrinsics))
	assert.EqualError(t, (&frame.Intrinsics{Width: 1, Height: 1}).CheckValid(), "camera intrinsic parameters are not available: invalid focal length (0, 0)")
}

func TestCoordinateSystemsAreDistinct(t *testing.T) {
	is := is.New(t)
	a, b := frame.NewCoordinateSystem(), frame.NewCoordinateSystem()
	is.True(a.ID() != b.ID())

	var none *frame.CoordinateSystem
	is.Equal(none.ID(), "")
}
