package dragon

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/aggregate"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/correlate"
	"github.com/tauraamui/dragoneye/pkg/display"
	"github.com/tauraamui/dragoneye/pkg/dragon/process"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/source"
	"github.com/tauraamui/dragoneye/pkg/source/sourcebackend"
	"go.uber.org/atomic"
)

// Names of the in-memory preview targets.
const (
	PreviewColor       = "color"
	PreviewDepth       = "depth"
	PreviewInfrared    = "infrared"
	PreviewDepthFilter = "depth-filter"
)

type Server interface {
	LoadConfiguration() error
	Start(context.Context) error
	PickNextSourceGroup(context.Context) bool
	Cleanup(context.Context)
	RequestCapture()
	Preview(name string) *display.Memory
	Stats() Stats
	Shutdown() chan interface{}
}

type BackendFactory func([]configdef.SourceGroup) source.Backend

type Option func(*server)

func WithBackend(factory BackendFactory) Option {
	return func(s *server) { s.backendFactory = factory }
}

// WithFs sets the filesystem snapshots are written to.
func WithFs(fs afero.Fs) Option {
	return func(s *server) { s.fs = fs }
}

func NewServer(resolver configdef.Resolver, opts ...Option) Server {
	s := &server{
		configResolver: resolver,
		backendFactory: sourcebackend.Default,
		fs:             afero.NewOsFs(),
		groupIndex:     -1,
		shutdownDone:   make(chan interface{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.aggregator = aggregate.New(s.dispatch)
	return s
}

type server struct {
	configResolver configdef.Resolver
	backendFactory BackendFactory
	fs             afero.Fs
	config         configdef.Values
	backend        source.Backend
	aggregator     *aggregate.Aggregator

	previews  map[frame.Kind]*target
	snapshots map[frame.Kind]*target
	filter    *target
	memory    map[string]*display.Memory

	// presentation runs every target's context as one process
	presentation process.Process

	captureRequested atomic.Bool

	// selectMu serialises group selection and cleanup
	selectMu   sync.Mutex
	groupIndex int

	mu      sync.Mutex
	capture source.Capture
	readers []source.Reader

	shutdownOnce sync.Once
	shutdownDone chan interface{}
}

func (s *server) LoadConfiguration() error {
	config, err := s.configResolver.Resolve()
	if err != nil {
		return err
	}

	s.config = config
	s.backend = s.backendFactory(config.Enabled())
	s.setupTargets()
	return nil
}

func (s *server) setupTargets() {
	var opts []correlate.Option
	if fade := s.config.Fade; fade != (configdef.Fade{}) {
		opts = append(opts, correlate.WithFadeBand(fade.StartMeters, fade.EndMeters))
	}

	s.memory = map[string]*display.Memory{}
	s.previews = map[frame.Kind]*target{}
	s.snapshots = map[frame.Kind]*target{}

	for _, k := range frame.Kinds {
		name := strings.ToLower(k.String())
		preview := display.NewMemory(name)
		s.memory[name] = preview
		s.previews[k] = newTarget(name, preview, nil)
		s.snapshots[k] = newTarget(
			name+"-snapshot",
			display.NewSnapshot(s.fs, s.config.SnapshotLocation, name),
			nil,
		)
	}

	filterPreview := display.NewMemory(PreviewDepthFilter)
	s.memory[PreviewDepthFilter] = filterPreview
	s.filter = newTarget(PreviewDepthFilter, display.Multi{
		filterPreview,
		display.NewSnapshot(s.fs, s.config.SnapshotLocation, PreviewDepthFilter),
	}, correlate.New(opts...))

	contexts := []process.Process{}
	for _, t := range s.targets() {
		contexts = append(contexts, t.context)
	}
	s.presentation = process.NewGroup(contexts...)
}

func (s *server) targets() []*target {
	targets := []*target{}
	for _, k := range frame.Kinds {
		targets = append(targets, s.previews[k], s.snapshots[k])
	}
	return append(targets, s.filter)
}

// Start launches the presentation contexts and selects the first source
// group. A failed selection is logged and leaves the server idle.
func (s *server) Start(ctx context.Context) error {
	if s.backend == nil {
		if err := s.LoadConfiguration(); err != nil {
			return err
		}
	}

	s.presentation.Setup().Start()

	if !s.PickNextSourceGroup(ctx) {
		log.Warn("No source group is streaming, waiting for next selection...")
	}
	return nil
}

// RequestCapture arms the snapshot targets for the next synchronized set.
func (s *server) RequestCapture() {
	s.captureRequested.Store(true)
	log.Info("Capture requested, waiting for next synchronized frame set...")
}

func (s *server) Preview(name string) *display.Memory {
	return s.memory[name]
}

func (s *server) shutdown() {
	s.Cleanup(context.Background())
	if s.presentation != nil {
		s.presentation.Stop()
		s.presentation.Wait()
	}
	close(s.shutdownDone)
}

// Shutdown stops streaming and presentation. The returned channel closes
// once everything has stopped.
func (s *server) Shutdown() chan interface{} {
	s.shutdownOnce.Do(func() {
		go s.shutdown()
	})
	return s.shutdownDone
}
