package source

import (
	"context"
	"errors"

	"github.com/tauraamui/dragoneye/pkg/frame"
)

var (
	ErrSourceNotFound = errors.New("frame source not found")
	ErrGroupNotFound  = errors.New("source group no longer available")
	ErrReaderStopped  = errors.New("reader has been shut down")
)

// Info describes one frame source within a group.
type Info struct {
	ID          string
	Kind        frame.Kind
	DisplayName string
}

// Group is a set of sources on one device that can stream together.
type Group struct {
	ID          string
	DisplayName string
	Infos       []Info
}

// Find returns the first source of kind k in the group.
func (g Group) Find(k frame.Kind) (Info, bool) {
	for _, info := range g.Infos {
		if info.Kind == k {
			return info, true
		}
	}
	return Info{}, false
}

func (g Group) Has(k frame.Kind) bool {
	_, ok := g.Find(k)
	return ok
}

// Backend enumerates source groups and opens capture sessions on them.
type Backend interface {
	FindAllGroups(context.Context) ([]Group, error)
	InitializeCapture(context.Context, Group) (Capture, error)
}

// Capture is an initialised session over one group.
type Capture interface {
	HasSource(id string) bool
	CreateReader(ctx context.Context, id string) (Reader, error)
	Close() error
}

// Reader streams frames from a single source. Frame-arrived callbacks run
// on the reader's own goroutine.
type Reader interface {
	Info() Info
	OnFrameArrived(func(Reader)) *Registration
	// TryAcquireLatestFrame returns the newest frame not yet acquired, or
	// nil if there is none or the reader is no longer started.
	TryAcquireLatestFrame() *frame.Frame
	Start(context.Context) error
	Stop(context.Context) error
}
