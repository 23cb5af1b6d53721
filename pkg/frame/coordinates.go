package frame

import (
	"errors"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/tauraamui/xerror"
)

// ErrNoIntrinsics is returned when a colour frame has no usable camera model.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// ErrNoMapper is returned when depth and colour sources are not geometrically correlated.
var ErrNoMapper = errors.New("unable to create depth coordinate mapper")

// Intrinsics is a pinhole camera model.
type Intrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// CheckValid checks if the fields for Intrinsics have valid inputs.
func (i *Intrinsics) CheckValid() error {
	if i == nil {
		return ErrNoIntrinsics
	}
	if i.Width == 0 || i.Height == 0 {
		return xerror.Errorf("%w: invalid size (%d, %d)", ErrNoIntrinsics, i.Width, i.Height)
	}
	if i.Fx <= 0 || i.Fy <= 0 {
		return xerror.Errorf("%w: invalid focal length (%v, %v)", ErrNoIntrinsics, i.Fx, i.Fy)
	}
	if i.Ppx < 0 || i.Ppy < 0 {
		return xerror.Errorf("%w: invalid principal point (%v, %v)", ErrNoIntrinsics, i.Ppx, i.Ppy)
	}
	return nil
}

// PixelToPoint lifts pixel (x, y) at depth z into a 3D point in the camera frame.
func (i *Intrinsics) PixelToPoint(x, y, z float64) r3.Vector {
	return r3.Vector{
		X: (x - i.Ppx) / i.Fx * z,
		Y: (y - i.Ppy) / i.Fy * z,
		Z: z,
	}
}

// PointToPixel projects a 3D point onto the image plane. Points with no
// depth land at (-1, -1) so bounds checks reject them.
func (i *Intrinsics) PointToPixel(p r3.Vector) r2.Point {
	if p.Z == 0 {
		return r2.Point{X: -1, Y: -1}
	}
	return r2.Point{
		X: (p.X/p.Z)*i.Fx + i.Ppx,
		Y: (p.Y/p.Z)*i.Fy + i.Ppy,
	}
}

// CoordinateSystem is an opaque handle naming the spatial frame a colour
// camera reports its pixels in.
type CoordinateSystem struct {
	id string
}

func NewCoordinateSystem() *CoordinateSystem {
	return &CoordinateSystem{id: uuid.NewString()}
}

func (c *CoordinateSystem) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// CoordinateMapper unprojects colour space pixel coordinates into depth
// space. dst[i].Z is the depth in meters behind src[i]; zero or negative
// means unknown.
type CoordinateMapper interface {
	UnprojectPoints(src []r2.Point, target *CoordinateSystem, dst []r3.Vector) error
}

// MapperFactory is implemented by depth frames able to correlate with a colour camera.
type MapperFactory interface {
	TryCreateCoordinateMapper(intrinsics *Intrinsics, target *CoordinateSystem) (CoordinateMapper, bool)
}
