package sourcebackend

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/source"
	"github.com/tauraamui/xerror"
	"go.uber.org/multierr"
)

// namespace keeps generated group and source IDs stable across restarts.
var namespace = uuid.MustParse("6f0d3c52-8b7a-4c1e-9b43-2f7f3d1d6a10")

type sensorDef struct {
	info   source.Info
	config configdef.Sensor
}

type syntheticGroup struct {
	group       source.Group
	config      configdef.SourceGroup
	sensors     map[string]sensorDef
	colorSystem *frame.CoordinateSystem
}

type syntheticBackend struct {
	groups []*syntheticGroup
}

// Synthetic returns a backend producing generated frames for every enabled
// sensor of every enabled group.
func Synthetic(groups []configdef.SourceGroup) source.Backend {
	b := &syntheticBackend{}
	for _, g := range groups {
		if g.Disabled {
			continue
		}
		b.groups = append(b.groups, newSyntheticGroup(g))
	}
	return b
}

func newSyntheticGroup(cfg configdef.SourceGroup) *syntheticGroup {
	sg := &syntheticGroup{
		group: source.Group{
			ID:          uuid.NewSHA1(namespace, []byte(cfg.Name)).String(),
			DisplayName: cfg.Name,
		},
		config:      cfg,
		sensors:     map[string]sensorDef{},
		colorSystem: frame.NewCoordinateSystem(),
	}

	sensors := [...]configdef.Sensor{
		frame.Color:    cfg.Color,
		frame.Depth:    cfg.Depth,
		frame.Infrared: cfg.Infrared,
	}
	for _, k := range frame.Kinds {
		s := sensors[k]
		if !s.Enabled {
			continue
		}
		info := source.Info{
			ID:          uuid.NewSHA1(namespace, []byte(cfg.Name+"/"+k.String())).String(),
			Kind:        k,
			DisplayName: fmt.Sprintf("%s %s", cfg.Name, k),
		}
		sg.group.Infos = append(sg.group.Infos, info)
		sg.sensors[info.ID] = sensorDef{info: info, config: s}
	}
	return sg
}

func (b *syntheticBackend) FindAllGroups(ctx context.Context) ([]source.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups := make([]source.Group, 0, len(b.groups))
	for _, sg := range b.groups {
		g := sg.group
		g.Infos = append([]source.Info(nil), sg.group.Infos...)
		groups = append(groups, g)
	}
	return groups, nil
}

func (b *syntheticBackend) InitializeCapture(ctx context.Context, g source.Group) (source.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, sg := range b.groups {
		if sg.group.ID == g.ID {
			log.Debug("Initialised capture on source group [%s]", sg.group.DisplayName)
			return &capture{group: sg}, nil
		}
	}
	return nil, xerror.Errorf("unable to initialise capture on [%s]: %w", g.DisplayName, source.ErrGroupNotFound)
}

type capture struct {
	group *syntheticGroup

	mu      sync.Mutex
	closed  bool
	readers []*reader
}

func (c *capture) HasSource(id string) bool {
	_, ok := c.group.sensors[id]
	return ok
}

func (c *capture) CreateReader(ctx context.Context, id string) (source.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sensor, ok := c.group.sensors[id]
	if !ok {
		return nil, xerror.Errorf("unable to create reader for [%s]: %w", id, source.ErrSourceNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, xerror.Errorf("capture on [%s] is closed", c.group.group.DisplayName)
	}

	r := newReader(sensor, newGenerator(c.group, sensor))
	c.readers = append(c.readers, r)
	return r, nil
}

// Close stops every reader created from this capture.
func (c *capture) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	readers := c.readers
	c.readers = nil
	c.mu.Unlock()

	var err error
	for _, r := range readers {
		err = multierr.Append(err, r.shutdown(context.Background()))
	}
	return err
}
