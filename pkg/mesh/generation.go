package mesh

import (
	"sync"
	"sync/atomic"
)

// generation is a mutation counter with change notification.
//
// The counter uses sync/atomic, whose operations are sequentially
// consistent: tensor writes made before a bump are visible to any
// goroutine whose load observes the bumped value. Watchers give render
// threads an explicit handoff instead of polling.
type generation struct {
	value atomic.Uint32

	mu       sync.Mutex
	watchers map[*Watcher]struct{}
}

func (g *generation) load() uint32 {
	return g.value.Load()
}

func (g *generation) bump() uint32 {
	v := g.value.Add(1)

	g.mu.Lock()
	defer g.mu.Unlock()
	for w := range g.watchers {
		w.offer(v)
	}
	return v
}

func (g *generation) watch() *Watcher {
	w := &Watcher{c: make(chan uint32, 1), owner: g}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.watchers == nil {
		g.watchers = make(map[*Watcher]struct{})
	}
	g.watchers[w] = struct{}{}
	return w
}

func (g *generation) unwatch(w *Watcher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.watchers, w)
}

// Watcher delivers a mesh's generation after each change. Only the most
// recent value is kept; a slow reader skips intermediate generations.
type Watcher struct {
	c     chan uint32
	owner *generation
	once  sync.Once
}

// C returns the channel on which new generations arrive.
func (w *Watcher) C() <-chan uint32 {
	return w.c
}

// Close stops delivery. The channel is not closed, so a pending value
// can still be read.
func (w *Watcher) Close() {
	w.once.Do(func() { w.owner.unwatch(w) })
}

// offer replaces any unread value with v. Called with the owner's lock held.
func (w *Watcher) offer(v uint32) {
	select {
	case <-w.c:
	default:
	}
	w.c <- v
}
