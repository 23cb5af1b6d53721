package present

import (
	"go.uber.org/atomic"

	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
)

// Display is the surface a presenter hands finished bitmaps to.
type Display interface {
	Present(*frame.Bitmap) error
}

// Presenter hands bitmaps from producer goroutines to a display on its
// scheduler. A single pending slot holds the newest unpresented bitmap;
// publishing over an occupied slot supersedes the older bitmap. At most
// one drain is scheduled at a time.
type Presenter struct {
	name      string
	display   Display
	scheduler Scheduler

	pending  atomic.Pointer[frame.Bitmap]
	draining atomic.Bool

	published  atomic.Uint64
	superseded atomic.Uint64
	presented  atomic.Uint64
	failed     atomic.Uint64
}

type Stats struct {
	Published  uint64
	Superseded uint64
	Presented  uint64
	Failed     uint64
}

func NewPresenter(name string, display Display, scheduler Scheduler) *Presenter {
	return &Presenter{name: name, display: display, scheduler: scheduler}
}

func (p *Presenter) Name() string { return p.name }

// Publish takes ownership of b. A nil bitmap is ignored.
func (p *Presenter) Publish(b *frame.Bitmap) {
	if b == nil {
		return
	}
	p.published.Inc()
	if old := p.pending.Swap(b); old != nil {
		p.superseded.Inc()
	}
	if p.draining.CompareAndSwap(false, true) {
		p.scheduler.Schedule(p.drain)
	}
}

// drainIdle runs between finding the slot empty and clearing the draining flag.
var drainIdle = func() {}

func (p *Presenter) drain() {
	for {
		if b := p.pending.Swap(nil); b != nil {
			p.present(b)
			continue
		}
		drainIdle()
		p.draining.Store(false)
		// a publish between the empty swap and the store above saw
		// draining still set and did not schedule, so pick it up here
		if p.pending.Load() == nil || !p.draining.CompareAndSwap(false, true) {
			return
		}
	}
}

// present recovers display panics so the drain loop always reaches the
// point where it clears the draining flag.
func (p *Presenter) present(b *frame.Bitmap) {
	defer func() {
		if r := recover(); r != nil {
			p.failed.Inc()
			log.Error("Presenting to [%s] panicked: %v", p.name, r)
		}
	}()

	if err := p.display.Present(b); err != nil {
		p.failed.Inc()
		log.Error("Unable to present to [%s]: %v", p.name, err)
		return
	}
	p.presented.Inc()
}

func (p *Presenter) Stats() Stats {
	return Stats{
		Published:  p.published.Load(),
		Superseded: p.superseded.Load(),
		Presented:  p.presented.Load(),
		Failed:     p.failed.Load(),
	}
}
