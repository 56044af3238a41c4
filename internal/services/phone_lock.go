package services

import "sync"

// phoneLock serializes verification operations per phone number so concurrent
// requests for the same number cannot interleave read-modify-write cycles on
// the pending row. Locks are reference counted and dropped once the last
// holder releases, keeping the map bounded by in-flight phone numbers.
type phoneLock struct {
	mu    sync.Mutex
	locks map[string]*phoneLockEntry
}

type phoneLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPhoneLock() *phoneLock {
	return &phoneLock{locks: make(map[string]*phoneLockEntry)}
}

func (p *phoneLock) Lock(phone string) {
	p.mu.Lock()
	entry, ok := p.locks[phone]
	if !ok {
		entry = &phoneLockEntry{}
		p.locks[phone] = entry
	}
	entry.refs++
	p.mu.Unlock()

	entry.mu.Lock()
}

func (p *phoneLock) Unlock(phone string) {
	p.mu.Lock()
	entry := p.locks[phone]
	entry.refs--
	if entry.refs == 0 {
		delete(p.locks, phone)
	}
	p.mu.Unlock()

	entry.mu.Unlock()
}
