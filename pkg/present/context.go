package present

import (
	"context"
	"fmt"
	"sync"

	"github.com/tauraamui/dragoneye/pkg/dragon/process"
	"github.com/tauraamui/dragoneye/pkg/log"
)

// Scheduler runs work items at some later point.
type Scheduler interface {
	Schedule(func())
}

// Context is a serial executor. Work scheduled on it runs one item at a
// time, in submission order, on a single goroutine owned by the context.
type Context struct {
	name  string
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	proc  process.Process
}

func NewContext(name string) *Context {
	c := &Context{
		name: name,
		wake: make(chan struct{}, 1),
	}
	c.proc = process.New(process.Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping presentation context [%s]...", name),
		Process:            c.run,
	})
	return c
}

func (c *Context) Name() string { return c.name }

// Schedule enqueues fn. Work scheduled before Start runs once started.
func (c *Context) Schedule(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.queue = append(c.queue, fn)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Context) Setup() process.Process {
	c.proc.Setup()
	return c
}

func (c *Context) Start() { c.proc.Start() }
func (c *Context) Stop()  { c.proc.Stop() }
func (c *Context) Wait()  { c.proc.Wait() }

func (c *Context) run(ctx context.Context) []chan interface{} {
	stopped := make(chan interface{})
	go func() {
		defer close(stopped)
		for {
			c.runPending()
			select {
			case <-ctx.Done():
				return
			case <-c.wake:
			}
		}
	}()
	return []chan interface{}{stopped}
}

func (c *Context) runPending() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		fn := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.mu.Unlock()

		c.invoke(fn)
	}
}

func (c *Context) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Presentation work on [%s] panicked: %v", c.name, r)
		}
	}()
	fn()
}
