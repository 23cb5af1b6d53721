package frame

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies which sensor a frame came from.
type Kind int

const (
	Color Kind = iota
	Depth
	Infrared
)

// Kinds lists every source kind in dispatch order.
var Kinds = [...]Kind{Color, Depth, Infrared}

func (k Kind) String() string {
	switch k {
	case Color:
		return "Color"
	case Depth:
		return "Depth"
	case Infrared:
		return "Infrared"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Valid() bool {
	return k >= Color && k <= Infrared
}

var ErrNoBitmap = errors.New("frame carries no bitmap")

// Frame is a single captured sample from one source. Frames are never
// mutated after capture; consumers copy the bitmap before writing.
type Frame struct {
	Kind     Kind
	Seq      uint64
	Captured time.Time
	Bitmap   *Bitmap

	// DepthScale converts a raw depth sample to meters. Depth only.
	DepthScale float64

	// Intrinsics and CoordinateSystem describe the colour camera. Color only.
	Intrinsics       *Intrinsics
	CoordinateSystem *CoordinateSystem

	// Mapper builds depth to colour coordinate mappers. Depth only.
	Mapper MapperFactory
}

func (f *Frame) String() string {
	if f == nil {
		return "<nil frame>"
	}
	if f.Bitmap == nil {
		return fmt.Sprintf("%s#%d (no bitmap)", f.Kind, f.Seq)
	}
	return fmt.Sprintf("%s#%d %dx%d %s", f.Kind, f.Seq, f.Bitmap.Width, f.Bitmap.Height, f.Bitmap.Format)
}
