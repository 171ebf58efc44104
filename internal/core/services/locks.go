package services

import "sync"

// domainLocks hands out one mutex per domain so index operations on the
// same domain serialise while different domains proceed concurrently.
type domainLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDomainLocks() *domainLocks {
	return &domainLocks{locks: make(map[string]*sync.Mutex)}
}

// Get returns the mutex for a domain, creating it on first use.
func (d *domainLocks) Get(domain string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	lock, ok := d.locks[domain]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[domain] = lock
	}
	return lock
}
