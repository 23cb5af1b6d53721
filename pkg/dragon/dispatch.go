package dragon

import (
	"github.com/tauraamui/dragoneye/pkg/aggregate"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/present"
)

// dispatch routes a synchronized set. It runs on whichever reader
// completed the set, outside the aggregator's lock.
func (s *server) dispatch(set aggregate.Set) {
	s.render(s.previews, set)

	if !s.captureRequested.CompareAndSwap(true, false) {
		return
	}

	s.render(s.snapshots, set)
	if set.Enabled(frame.Color) && set.Enabled(frame.Depth) {
		s.filter.renderer.ProcessDepthAndColorFrames(set.Color(), set.Depth())
	}
	log.Info("Captured synchronized frame set")
}

func (s *server) render(targets map[frame.Kind]*target, set aggregate.Set) {
	for _, k := range frame.Kinds {
		f := set.Frame(k)
		if !set.Enabled(k) || f == nil {
			continue
		}
		r := targets[k].renderer
		switch k {
		case frame.Color:
			r.ProcessColorFrame(f)
		case frame.Depth:
			r.ProcessDepthFrame(f)
		case frame.Infrared:
			r.ProcessInfraredFrame(f)
		}
	}
}

type Stats struct {
	Aggregate aggregate.Stats
	Targets   map[string]present.Stats
}

func (s *server) Stats() Stats {
	stats := Stats{
		Aggregate: s.aggregator.Stats(),
		Targets:   map[string]present.Stats{},
	}
	for _, t := range s.targets() {
		if t != nil {
			stats.Targets[t.presenter.Name()] = t.presenter.Stats()
		}
	}
	return stats
}
