package services

import (
	"fmt"
	"sync"

	"github.com/taskmaster/dashboard/internal/ports"
)

// IDGenerator issues "<prefix>-<unix millis>" ids. When two ids are
// requested within the same millisecond the second one is bumped forward, so
// ids stay unique and increasing for the life of the process.
type IDGenerator struct {
	mu    sync.Mutex
	clock ports.Clock
	last  int64
}

func NewIDGenerator(clock ports.Clock) *IDGenerator {
	return &IDGenerator{clock: clock}
}

// Next returns a fresh id for the given entity prefix.
func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s-%d", prefix, ms)
}
