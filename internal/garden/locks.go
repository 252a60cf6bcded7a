package garden

import "sync"

// plantLocks serializes read-modify-write cycles on a single plant's todo
// list. Without it, two overlapping operations (say, rapid double-taps
// logging the same action) could both read the same todo state and one
// update would be lost. Operations on different plants do not contend.
type plantLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// lock acquires the mutex for a plant id, creating it on first use, and
// returns the unlock function.
func (l *plantLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	pm := l.m[id]
	if pm == nil {
		pm = &sync.Mutex{}
		l.m[id] = pm
	}
	l.mu.Unlock()

	pm.Lock()
	return pm.Unlock
}
