package render

import (
	"errors"

	"github.com/tauraamui/dragoneye/pkg/colorize"
	"github.com/tauraamui/dragoneye/pkg/correlate"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
)

// Publisher accepts finished premultiplied Bgra8 bitmaps.
type Publisher interface {
	Publish(*frame.Bitmap)
}

// Renderer turns raw frames into displayable bitmaps and hands them to a
// publisher. Frames that cannot be rendered are skipped, never fatal.
type Renderer struct {
	name       string
	publisher  Publisher
	correlator *correlate.Correlator
}

func New(name string, publisher Publisher, correlator *correlate.Correlator) *Renderer {
	if correlator == nil {
		correlator = correlate.New()
	}
	return &Renderer{name: name, publisher: publisher, correlator: correlator}
}

func (r *Renderer) Name() string { return r.name }

func (r *Renderer) ProcessColorFrame(f *frame.Frame) bool {
	if f == nil || f.Bitmap == nil {
		return false
	}
	out, err := colorize.ToBGRA(f.Bitmap)
	if err != nil {
		r.skip(f, err)
		return false
	}
	r.publisher.Publish(out)
	return true
}

func (r *Renderer) ProcessDepthFrame(f *frame.Frame) bool {
	if f == nil || f.Bitmap == nil {
		return false
	}
	out, err := colorize.Depth(f)
	if err != nil {
		r.skip(f, err)
		return false
	}
	r.publisher.Publish(out)
	return true
}

func (r *Renderer) ProcessInfraredFrame(f *frame.Frame) bool {
	if f == nil || f.Bitmap == nil {
		return false
	}
	out, err := colorize.Infrared(f)
	if err != nil {
		r.skip(f, err)
		return false
	}
	r.publisher.Publish(out)
	return true
}

// ProcessDepthAndColorFrames publishes the colour frame faded by depth.
// Pairs without a usable coordinate mapper are skipped silently.
func (r *Renderer) ProcessDepthAndColorFrames(color, depth *frame.Frame) bool {
	out, err := r.correlator.MapDepthToColor(color, depth)
	if err != nil {
		if !errors.Is(err, frame.ErrNoMapper) && !errors.Is(err, frame.ErrNoBitmap) {
			r.skip(color, err)
		}
		return false
	}
	r.publisher.Publish(out)
	return true
}

func (r *Renderer) skip(f *frame.Frame, err error) {
	log.Warn("Renderer [%s] skipped %s: %v", r.name, f, err)
}
