package dragon

import (
	"context"

	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/source"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// PickNextSourceGroup tears down the active group and starts streaming from
// the next group, in round robin order, that has a colour source.
func (s *server) PickNextSourceGroup(ctx context.Context) bool {
	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	s.cleanup(ctx)

	groups, err := s.backend.FindAllGroups(ctx)
	if err != nil {
		log.Error("Unable to enumerate source groups: %v", err)
		return false
	}

	eligible := []source.Group{}
	for _, g := range groups {
		if g.Has(frame.Color) {
			eligible = append(eligible, g)
		}
	}
	if len(eligible) == 0 {
		log.Warn("No valid source groups found")
		return false
	}

	s.groupIndex = (s.groupIndex + 1) % len(eligible)
	group := eligible[s.groupIndex]
	log.Info("Selected source group [%s]", group.DisplayName)

	if !s.initializeCapture(ctx, group) {
		s.cleanup(ctx)
		return false
	}

	s.aggregator.Reset()
	for _, k := range frame.Kinds {
		info, ok := group.Find(k)
		s.aggregator.Configure(k, info.ID, ok)
	}

	var eg errgroup.Group
	for _, k := range frame.Kinds {
		info, ok := group.Find(k)
		if !ok {
			continue
		}
		k := k
		eg.Go(func() error {
			s.createReader(ctx, k, info)
			return nil
		})
	}
	eg.Wait() //nolint

	return true
}

func (s *server) initializeCapture(ctx context.Context, group source.Group) bool {
	capture, err := s.backend.InitializeCapture(ctx, group)
	if err != nil {
		log.Error("Unable to initialise capture on [%s]: %v", group.DisplayName, err)
		return false
	}

	s.mu.Lock()
	s.capture = capture
	s.mu.Unlock()
	return true
}

// createReader never fails the selection. A source that cannot stream is
// disabled so it does not hold back completeness.
func (s *server) createReader(ctx context.Context, k frame.Kind, info source.Info) {
	s.mu.Lock()
	capture := s.capture
	s.mu.Unlock()

	if capture == nil || !capture.HasSource(info.ID) {
		log.Warn("Unable to start %s reader: Frame source not found", k)
		s.aggregator.Configure(k, info.ID, false)
		return
	}

	reader, err := capture.CreateReader(ctx, info.ID)
	if err != nil {
		log.Error("Unable to create %s reader: %v", k, err)
		s.aggregator.Configure(k, info.ID, false)
		return
	}

	s.aggregator.Attach(k, reader.OnFrameArrived(func(r source.Reader) {
		s.aggregator.OnFrameArrived(r)
	}))

	s.mu.Lock()
	s.readers = append(s.readers, reader)
	s.mu.Unlock()

	if err := reader.Start(ctx); err != nil {
		log.Error("Unable to start %s reader: %v", k, err)
		s.aggregator.Configure(k, info.ID, false)
		return
	}
	log.Debug("Started %s reader [%s]", k, info.DisplayName)
}

// Cleanup stops streaming from the active group and returns the server
// to idle.
func (s *server) Cleanup(ctx context.Context) {
	s.selectMu.Lock()
	defer s.selectMu.Unlock()
	s.cleanup(ctx)
}

func (s *server) cleanup(ctx context.Context) {
	s.aggregator.Reset()

	s.mu.Lock()
	readers, capture := s.readers, s.capture
	s.readers, s.capture = nil, nil
	s.mu.Unlock()

	var err error
	for _, r := range readers {
		err = multierr.Append(err, r.Stop(ctx))
	}
	if capture != nil {
		err = multierr.Append(err, capture.Close())
	}
	for _, e := range multierr.Errors(err) {
		log.Error("Unable to clean up source: %v", e)
	}
}
