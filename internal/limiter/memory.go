package limiter

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	fails        int
	blockedUntil time.Time
	updatedAt    time.Time
}

// Memory is an in-process limiter with a sliding failure window and lockout.
type Memory struct {
	window   time.Duration
	maxFails int
	blockFor time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

var _ Limiter = (*Memory)(nil)

// NewMemory constructs a limiter that blocks for blockFor after maxFails
// failures that each arrive within window of the previous one.
func NewMemory(window time.Duration, maxFails int, blockFor time.Duration) *Memory {
	return &Memory{
		window:   window,
		maxFails: maxFails,
		blockFor: blockFor,
		now:      time.Now,
		entries:  map[string]*entry{},
	}
}

func key(account string, ipHash []byte) string { return account + "\x00" + string(ipHash) }

// Allow reports whether a login for (account, ip) may proceed.
func (l *Memory) Allow(_ context.Context, account string, ipHash []byte) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key(account, ipHash)]
	if !ok {
		return true, 0, nil
	}
	if now := l.now(); e.blockedUntil.After(now) {
		return false, e.blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success resets counters for (account, ip).
func (l *Memory) Success(_ context.Context, account string, ipHash []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key(account, ipHash))
	return nil
}

// Failure records a failed attempt and reports whether the pair is now blocked.
func (l *Memory) Failure(_ context.Context, account string, ipHash []byte) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	k := key(account, ipHash)
	e, ok := l.entries[k]
	if !ok || now.Sub(e.updatedAt) > l.window {
		e = &entry{}
		l.entries[k] = e
	}
	e.fails++
	e.updatedAt = now
	if e.fails >= l.maxFails {
		e.blockedUntil = now.Add(l.blockFor)
		return true, l.blockFor, nil
	}
	return false, 0, nil
}
