package font

import (
	"context"
	"sync"
)

// flight is one in-progress fetch that late arrivals can wait on.
type flight struct {
	done chan struct{}
	desc Descriptor
	err  error
}

// flightGroup deduplicates concurrent fetches per cache key. The first
// caller for a key becomes the leader and performs the fetch; followers
// block on the flight until the leader finishes.
type flightGroup struct {
	mu      sync.Mutex
	flights map[string]*flight
}

func newFlightGroup() *flightGroup {
	return &flightGroup{flights: map[string]*flight{}}
}

// start returns the flight for key and whether the caller is its leader.
func (g *flightGroup) start(key string) (*flight, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.flights[key]; ok {
		return existing, false
	}

	f := &flight{done: make(chan struct{})}
	g.flights[key] = f

	return f, true
}

// finish publishes the leader's result and releases all followers.
func (g *flightGroup) finish(key string, f *flight, desc Descriptor, err error) {
	g.mu.Lock()
	if current, ok := g.flights[key]; ok && current == f {
		delete(g.flights, key)
	}
	g.mu.Unlock()

	f.desc = desc
	f.err = err
	close(f.done)
}

// wait blocks until the flight completes or ctx is done. A follower's
// cancellation abandons only its own wait, never the leader's fetch.
func (f *flight) wait(ctx context.Context) (Descriptor, error) {
	select {
	case <-f.done:
		return f.desc, f.err
	case <-ctx.Done():
		return Descriptor{}, ctx.Err()
	}
}
