package process

import (
	"context"
	"sync"
	"time"

	"github.com/tauraamui/dragoneye/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

// Settings describes a process. Process launches the work bound to ctx
// and returns one channel per goroutine, each closed when it exits.
type Settings struct {
	WaitForShutdownMsg string
	Process            func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		process:            settings.Process,
	}
}

type process struct {
	mu                 sync.Mutex
	process            func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) logShutdown() {
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
}

func (p *process) Setup() Process { return p }

// Start is a no-op while the process is already running.
func (p *process) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller != nil {
		return
	}
	ctx, canceller := context.WithCancel(context.Background())
	p.canceller = canceller
	p.signals = append(p.signals, p.process(ctx)...)
}

func (p *process) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller == nil {
		return
	}
	p.logShutdown()
	p.canceller()
	p.canceller = nil
}

func (p *process) Wait() {
	p.mu.Lock()
	signals := p.signals
	p.signals = nil
	p.mu.Unlock()

	for _, sig := range signals {
		<-sig
	}
}

// Ticker runs tick every interval until the process is stopped.
func Ticker(interval time.Duration, tick func(context.Context)) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		stopped := make(chan interface{})
		go func() {
			defer close(stopped)
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					tick(ctx)
				}
			}
		}()
		return []chan interface{}{stopped}
	}
}
