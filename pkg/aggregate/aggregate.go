package aggregate

import (
	"sync"

	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"go.uber.org/atomic"
)

// FrameAcquirer hands out the newest frame a reader has not yet given away.
type FrameAcquirer interface {
	TryAcquireLatestFrame() *frame.Frame
}

// Registration is a frame-arrived subscription owned by the aggregator.
type Registration interface {
	Release()
}

// Set is one synchronized tuple, a frame for every enabled source.
type Set struct {
	frames  [len(frame.Kinds)]*frame.Frame
	enabled [len(frame.Kinds)]bool
}

func (s Set) Frame(k frame.Kind) *frame.Frame {
	if !k.Valid() {
		return nil
	}
	return s.frames[k]
}

func (s Set) Enabled(k frame.Kind) bool {
	return k.Valid() && s.enabled[k]
}

func (s Set) Color() *frame.Frame    { return s.frames[frame.Color] }
func (s Set) Depth() *frame.Frame    { return s.frames[frame.Depth] }
func (s Set) Infrared() *frame.Frame { return s.frames[frame.Infrared] }

type Handler func(Set)

type sourceState struct {
	id            string
	enabled       bool
	latest        *frame.Frame
	registrations []Registration
}

// Aggregator buffers the newest frame per source and hands a Set to the
// handler as soon as every enabled source has one pending. A single lock
// covers the whole state table.
type Aggregator struct {
	handler Handler

	mu      sync.Mutex
	sources [len(frame.Kinds)]sourceState

	dispatched  atomic.Uint64
	overwritten atomic.Uint64
}

func New(handler Handler) *Aggregator {
	return &Aggregator{handler: handler}
}

// Reset releases every registration and returns all sources to disabled
// with nothing pending.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	var released []Registration
	for i := range a.sources {
		released = append(released, a.sources[i].registrations...)
		a.sources[i] = sourceState{}
	}
	a.mu.Unlock()

	for _, r := range released {
		r.Release()
	}
}

// Configure records the identity of the source of kind k and whether it
// takes part in completeness checks.
func (a *Aggregator) Configure(k frame.Kind, id string, enabled bool) {
	if !k.Valid() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sources[k].id = id
	a.sources[k].enabled = enabled
}

// Attach hands ownership of a reader subscription for kind k to the
// aggregator. It is released on the next Reset.
func (a *Aggregator) Attach(k frame.Kind, r Registration) {
	if !k.Valid() || r == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sources[k].registrations = append(a.sources[k].registrations, r)
}

func (a *Aggregator) Enabled(k frame.Kind) bool {
	if !k.Valid() {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sources[k].enabled
}

// Pending reports whether kind k has a buffered frame waiting for its set.
func (a *Aggregator) Pending(k frame.Kind) bool {
	if !k.Valid() {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sources[k].latest != nil
}

// OnFrameArrived is the frame-arrived callback shared by every reader.
func (a *Aggregator) OnFrameArrived(src FrameAcquirer) {
	f := src.TryAcquireLatestFrame()
	if f == nil {
		log.Warn("Unable to acquire frame")
		return
	}
	a.Store(f)
}

// Store buffers f as the latest frame of its kind, replacing any frame
// still waiting, and dispatches if that completes a set.
func (a *Aggregator) Store(f *frame.Frame) {
	if f == nil || !f.Kind.Valid() {
		log.Warn("Dropping frame of unknown source kind: %v", f)
		return
	}

	a.mu.Lock()
	st := &a.sources[f.Kind]
	if st.latest != nil {
		a.overwritten.Inc()
	}
	st.latest = f
	set, complete := a.takeCompleteSet()
	a.mu.Unlock()

	if !complete {
		return
	}
	a.dispatched.Inc()
	if a.handler != nil {
		a.handler(set)
	}
}

// takeCompleteSet must be called with mu held. Slots that make up the
// returned set are cleared before the lock is released.
func (a *Aggregator) takeCompleteSet() (Set, bool) {
	anyEnabled := false
	for _, st := range a.sources {
		if !st.enabled {
			continue
		}
		anyEnabled = true
		if st.latest == nil {
			return Set{}, false
		}
	}
	if !anyEnabled {
		return Set{}, false
	}

	var set Set
	for k := range a.sources {
		st := &a.sources[k]
		if !st.enabled {
			continue
		}
		set.frames[k] = st.latest
		set.enabled[k] = true
		st.latest = nil
	}
	return set, true
}

type Stats struct {
	Dispatched  uint64
	Overwritten uint64
}

func (a *Aggregator) Stats() Stats {
	return Stats{
		Dispatched:  a.dispatched.Load(),
		Overwritten: a.overwritten.Load(),
	}
}
