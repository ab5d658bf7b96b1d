package services

import "sync"

// ApplicationGuard serializes mutations of one application within a process. Different applications
// never share a lock. Across processes the repository's version check takes over.
type ApplicationGuard struct {
	mu    sync.Mutex
	locks map[string]*guardEntry
}

type guardEntry struct {
	mu   sync.Mutex
	refs int
}

func NewApplicationGuard() *ApplicationGuard {
	return &ApplicationGuard{locks: make(map[string]*guardEntry)}
}

// Lock blocks until applicationID is free and returns the function that releases it.
func (g *ApplicationGuard) Lock(applicationID string) (unlock func()) {
	g.mu.Lock()
	e, ok := g.locks[applicationID]
	if !ok {
		e = &guardEntry{}
		g.locks[applicationID] = e
	}
	e.refs++
	g.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		g.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(g.locks, applicationID)
		}
		g.mu.Unlock()
	}
}

// held returns the number of applications with a holder or waiter.
func (g *ApplicationGuard) held() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
