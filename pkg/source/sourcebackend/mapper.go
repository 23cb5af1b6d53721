package sourcebackend

import (
	"encoding/binary"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/xerror"
)

// mapperFactory correlates one depth frame with the colour camera of the
// same group. The colour and depth cameras are modelled as sharing an
// optical centre, so a colour pixel maps to the depth pixel on the same ray.
type mapperFactory struct {
	correlated bool
	system     *frame.CoordinateSystem
	depth      *frame.Intrinsics
	samples    *frame.Bitmap
	scale      float64
}

func (m *mapperFactory) TryCreateCoordinateMapper(color *frame.Intrinsics, target *frame.CoordinateSystem) (frame.CoordinateMapper, bool) {
	if !m.correlated || target == nil || target.ID() != m.system.ID() {
		return nil, false
	}
	if color.CheckValid() != nil || m.depth.CheckValid() != nil {
		return nil, false
	}
	return &pinholeMapper{color: color, factory: m}, true
}

type pinholeMapper struct {
	color   *frame.Intrinsics
	factory *mapperFactory
}

func (p *pinholeMapper) UnprojectPoints(src []r2.Point, target *frame.CoordinateSystem, dst []r3.Vector) error {
	if target.ID() != p.factory.system.ID() {
		return xerror.Errorf("coordinate system [%s] does not match mapper: %w", target.ID(), frame.ErrNoMapper)
	}
	if len(dst) < len(src) {
		return xerror.Errorf("destination holds %d points, need %d", len(dst), len(src))
	}

	depth, samples := p.factory.depth, p.factory.samples
	for i, px := range src {
		// unit depth ray through the colour pixel, reprojected into depth
		ray := p.color.PixelToPoint(px.X, px.Y, 1)
		dp := depth.PointToPixel(ray)
		dx, dy := int(math.Round(dp.X)), int(math.Round(dp.Y))
		if dx < 0 || dy < 0 || dx >= samples.Width || dy >= samples.Height {
			dst[i] = r3.Vector{}
			continue
		}

		z := float64(binary.LittleEndian.Uint16(samples.Row(dy)[dx*2:])) * p.factory.scale
		if z == 0 {
			dst[i] = r3.Vector{}
			continue
		}
		dst[i] = p.color.PixelToPoint(px.X, px.Y, z)
	}
	return nil
}
