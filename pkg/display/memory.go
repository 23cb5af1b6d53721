package display

import (
	"sync"

	"github.com/tauraamui/dragoneye/pkg/frame"
)

// Memory keeps the most recently presented bitmap. It backs the in-process
// previews and is what tests inspect.
type Memory struct {
	name string

	mu    sync.Mutex
	last  *frame.Bitmap
	count int
}

func NewMemory(name string) *Memory {
	return &Memory{name: name}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Present(b *frame.Bitmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = b
	m.count++
	return nil
}

// Last returns the newest bitmap, or nil if nothing was presented yet.
func (m *Memory) Last() *frame.Bitmap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}
