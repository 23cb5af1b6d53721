package process

import (
	"sync"
)

// NewGroup composes procs into a single process. Start and Stop fan out
// in order, Wait returns once every member has exited.
func NewGroup(procs ...Process) Process {
	return &group{procs: procs}
}

type group struct {
	procs []Process
}

func (g *group) Setup() Process {
	for _, p := range g.procs {
		p.Setup()
	}
	return g
}

func (g *group) Start() {
	for _, p := range g.procs {
		p.Start()
	}
}

func (g *group) Stop() {
	for _, p := range g.procs {
		p.Stop()
	}
}

func (g *group) Wait() {
	wg := sync.WaitGroup{}
	wg.Add(len(g.procs))
	for _, p := range g.procs {
		go func(wg *sync.WaitGroup, p Process) {
			p.Wait()
			wg.Done()
		}(&wg, p)
	}
	wg.Wait()
}
