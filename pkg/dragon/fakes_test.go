package dragon_test

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/source"
)

type testConfigResolver struct {
	values configdef.Values
}

func (tcc testConfigResolver) Resolve() (configdef.Values, error) {
	return tcc.values, nil
}

type fakeBackend struct {
	groups  []source.Group
	initErr error
	// missing names sources the capture claims not to have
	missing map[string]bool

	mu       sync.Mutex
	captures []*fakeCapture
}

func (b *fakeBackend) FindAllGroups(context.Context) ([]source.Group, error) {
	return b.groups, nil
}

func (b *fakeBackend) InitializeCapture(_ context.Context, g source.Group) (source.Capture, error) {
	if b.initErr != nil {
		return nil, b.initErr
	}
	c := &fakeCapture{group: g, missing: b.missing, readers: map[string]*fakeReader{}}
	b.mu.Lock()
	b.captures = append(b.captures, c)
	b.mu.Unlock()
	return c, nil
}

func (b *fakeBackend) lastCapture() *fakeCapture {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.captures) == 0 {
		return nil
	}
	return b.captures[len(b.captures)-1]
}

type fakeCapture struct {
	group   source.Group
	missing map[string]bool

	mu      sync.Mutex
	closed  bool
	readers map[string]*fakeReader
}

func (c *fakeCapture) HasSource(id string) bool {
	if c.missing[id] {
		return false
	}
	for _, info := range c.group.Infos {
		if info.ID == id {
			return true
		}
	}
	return false
}

func (c *fakeCapture) CreateReader(_ context.Context, id string) (source.Reader, error) {
	for _, info := range c.group.Infos {
		if info.ID == id {
			r := &fakeReader{info: info}
			c.mu.Lock()
			c.readers[id] = r
			c.mu.Unlock()
			return r, nil
		}
	}
	return nil, source.ErrSourceNotFound
}

func (c *fakeCapture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeCapture) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeCapture) reader(k frame.Kind) *fakeReader {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.readers {
		if r.info.Kind == k {
			return r
		}
	}
	return nil
}

type fakeReader struct {
	info    source.Info
	arrived source.Event

	mu      sync.Mutex
	started bool
	latest  *frame.Frame
}

func (r *fakeReader) Info() source.Info { return r.info }

func (r *fakeReader) OnFrameArrived(h func(source.Reader)) *source.Registration {
	return r.arrived.Subscribe(h)
}

func (r *fakeReader) TryAcquireLatestFrame() *frame.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.latest
	r.latest = nil
	return f
}

func (r *fakeReader) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	return nil
}

func (r *fakeReader) Stop(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return errors.New("reader was never started")
	}
	r.started = false
	return nil
}

func (r *fakeReader) isStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// push delivers f the way a device callback would, on the calling goroutine.
func (r *fakeReader) push(f *frame.Frame) {
	r.mu.Lock()
	r.latest = f
	r.mu.Unlock()
	r.arrived.Fire(r)
}

type fixedDepthMapper struct{ z float64 }

func (m fixedDepthMapper) TryCreateCoordinateMapper(*frame.Intrinsics, *frame.CoordinateSystem) (frame.CoordinateMapper, bool) {
	return m, true
}

func (m fixedDepthMapper) UnprojectPoints(src []r2.Point, _ *frame.CoordinateSystem, dst []r3.Vector) error {
	for i := range src {
		dst[i] = r3.Vector{Z: m.z}
	}
	return nil
}

func group(name string, kinds ...frame.Kind) source.Group {
	g := source.Group{ID: name, DisplayName: name}
	for _, k := range kinds {
		g.Infos = append(g.Infos, source.Info{ID: name + "/" + k.String(), Kind: k, DisplayName: name + " " + k.String()})
	}
	return g
}
