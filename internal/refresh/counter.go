package refresh

import "sync"

// Counter is a monotonically increasing list version. Whoever changes backend
// state bumps it; whoever renders the list includes Current() in its load key.
type Counter struct {
	mu      sync.Mutex
	version uint64
	subs    map[chan uint64]struct{}
}

func NewCounter() *Counter {
	return &Counter{subs: make(map[chan uint64]struct{})}
}

func (c *Counter) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Bump increments the version and signals every subscriber.
func (c *Counter) Bump() uint64 {
	c.mu.Lock()
	c.version++
	version := c.version
	subs := make([]chan uint64, 0, len(c.subs))
	for ch := range c.subs {
		subs = append(subs, ch)
	}
	c.mu.Unlock()

	for _, ch := range subs {
		signal(ch, version)
	}
	return version
}

// Subscribe returns a channel that receives the latest version after each bump.
// Bumps that arrive faster than the reader are coalesced into the newest version.
func (c *Counter) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
		})
	}
}

func signal(ch chan uint64, version uint64) {
	for {
		select {
		case ch <- version:
			return
		default:
		}
		// drop the stale pending value so the newest version wins
		select {
		case <-ch:
		default:
		}
	}
}
