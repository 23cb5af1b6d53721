package correlate

import (
	"sync"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/tauraamui/dragoneye/pkg/colorize"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/xerror"
)

// Colour pixels fade to black between these distances, in meters.
const (
	FadeStartMeters = 0.84
	FadeEndMeters   = 0.85
)

type Option func(*Correlator)

// WithFadeBand overrides the distances over which colour fades to black.
func WithFadeBand(start, end float64) Option {
	return func(c *Correlator) {
		c.fadeStart, c.fadeEnd = float32(start), float32(end)
	}
}

// Correlator fades a colour frame by the depth found behind each pixel.
// The per pixel coordinate grids are cached and only rebuilt when the
// colour resolution changes.
type Correlator struct {
	fadeStart, fadeEnd float32

	mu          sync.Mutex
	width       int
	height      int
	colorPoints []r2.Point
	depthPoints []r3.Vector
	rebuilds    int
}

func New(opts ...Option) *Correlator {
	c := &Correlator{fadeStart: FadeStartMeters, fadeEnd: FadeEndMeters}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FadeFactor is 1 up to start meters, 0 from end meters, linear between.
func FadeFactor(depth, start, end float32) float32 {
	f := (depth - start) / (end - start)
	if f > 1 {
		f = 1
	} else if !(f >= 0) {
		f = 0
	}
	return 1 - f
}

// MapDepthToColor returns a premultiplied Bgra8 copy of the colour frame
// with every pixel faded by its correlated depth. frame.ErrNoMapper means
// the two sources are not geometrically correlated and the pair should be
// skipped.
func (c *Correlator) MapDepthToColor(color, depth *frame.Frame) (*frame.Bitmap, error) {
	if color == nil || depth == nil || color.Bitmap == nil || depth.Bitmap == nil {
		return nil, frame.ErrNoBitmap
	}
	if depth.Mapper == nil {
		return nil, frame.ErrNoMapper
	}
	mapper, ok := depth.Mapper.TryCreateCoordinateMapper(color.Intrinsics, color.CoordinateSystem)
	if !ok || mapper == nil {
		return nil, frame.ErrNoMapper
	}

	out, err := colorize.ToBGRA(color.Bitmap)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureGrid(out.Width, out.Height)
	if err := mapper.UnprojectPoints(c.colorPoints, color.CoordinateSystem, c.depthPoints); err != nil {
		return nil, xerror.Errorf("unable to unproject colour pixels into depth space: %w", err)
	}

	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		points := c.depthPoints[y*out.Width : (y+1)*out.Width]
		for x, p := range points {
			fade := FadeFactor(float32(p.Z), c.fadeStart, c.fadeEnd)
			px := row[x*4 : x*4+4]
			px[0] = uint8(float32(px[0]) * fade)
			px[1] = uint8(float32(px[1]) * fade)
			px[2] = uint8(float32(px[2]) * fade)
		}
	}
	return out, nil
}

func (c *Correlator) ensureGrid(width, height int) {
	if c.colorPoints != nil && c.width == width && c.height == height {
		return
	}

	points := make([]r2.Point, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			points[y*width+x] = r2.Point{X: float64(x), Y: float64(y)}
		}
	}
	c.colorPoints = points
	c.depthPoints = make([]r3.Vector, width*height)
	c.width, c.height = width, height
	c.rebuilds++
}

// Rebuilds reports how many times the coordinate grids were allocated.
func (c *Correlator) Rebuilds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuilds
}
