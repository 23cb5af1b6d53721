package sourcebackend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tauraamui/dragoneye/pkg/dragon/process"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/source"
	"github.com/tauraamui/xerror"
)

type generator func(seq uint64) *frame.Frame

type reader struct {
	sensor   sensorDef
	generate generator
	arrived  source.Event

	mu      sync.Mutex
	started bool
	closed  bool
	seq     uint64
	latest  *frame.Frame
	proc    process.Process
}

func newReader(sensor sensorDef, generate generator) *reader {
	return &reader{sensor: sensor, generate: generate}
}

func (r *reader) Info() source.Info { return r.sensor.info }

func (r *reader) OnFrameArrived(h func(source.Reader)) *source.Registration {
	return r.arrived.Subscribe(h)
}

func (r *reader) TryAcquireLatestFrame() *frame.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil
	}
	f := r.latest
	r.latest = nil
	return f
}

func (r *reader) interval() time.Duration {
	fps := r.sensor.config.FPS
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

func (r *reader) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return xerror.Errorf("unable to start [%s]: %w", r.sensor.info.DisplayName, source.ErrReaderStopped)
	}
	if r.started {
		return nil
	}
	r.started = true
	r.proc = process.New(process.Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping [%s] reader...", r.sensor.info.DisplayName),
		Process:            process.Ticker(r.interval(), r.emit),
	})
	r.proc.Start()
	return nil
}

func (r *reader) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	r.latest = nil
	proc := r.proc
	r.proc = nil
	r.mu.Unlock()

	proc.Stop()
	stopped := make(chan struct{})
	go func() {
		proc.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shutdown stops the reader for good, it cannot be started again.
func (r *reader) shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return r.Stop(ctx)
}

func (r *reader) emit(context.Context) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	f := r.generate(seq)

	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.latest = f
	r.mu.Unlock()

	r.arrived.Fire(r)
}
