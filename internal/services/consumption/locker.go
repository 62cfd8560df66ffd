package consumption

import (
	"context"
	"sort"
	"sync"
)

// ItemLocker serialises consumptions that touch the same items. Lock blocks
// until every item is held or ctx is done; on success the returned function
// releases them.
type ItemLocker interface {
	Lock(ctx context.Context, itemIDs []string) (unlock func(), err error)
}

// LocalLocker is an in-process ItemLocker. An item has an entry only while
// someone holds or waits for it.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*itemLock
}

type itemLock struct {
	ch   chan struct{}
	refs int // holders plus waiters
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*itemLock)}
}

func (l *LocalLocker) acquireRef(id string) *itemLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	il, ok := l.locks[id]
	if !ok {
		il = &itemLock{ch: make(chan struct{}, 1)}
		l.locks[id] = il
	}
	il.refs++
	return il
}

func (l *LocalLocker) releaseRef(id string, il *itemLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	il.refs--
	if il.refs == 0 {
		delete(l.locks, id)
	}
}

// Lock acquires the items in sorted order so two callers can never wait on
// each other.
func (l *LocalLocker) Lock(ctx context.Context, itemIDs []string) (func(), error) {
	ids := lockOrder(itemIDs)
	held := make([]*itemLock, 0, len(ids))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].ch
			l.releaseRef(ids[i], held[i])
		}
	}

	for _, id := range ids {
		il := l.acquireRef(id)
		select {
		case il.ch <- struct{}{}:
			held = append(held, il)
		case <-ctx.Done():
			l.releaseRef(id, il)
			release()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// lockOrder returns the distinct IDs sorted ascending.
func lockOrder(itemIDs []string) []string {
	ids := make([]string, 0, len(itemIDs))
	seen := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
