package mocks

import (
	"context"
	"sync"
	"time"
)

// MockDistributedLock is an in-memory DistributedLock for sweeper tests.
// Locks expire against Now, which defaults to time.Now.
type MockDistributedLock struct {
	mu       sync.Mutex
	expiries map[string]time.Time
	acquired int

	Now       func() time.Time
	AcquireFn func(name string, ttl time.Duration) (bool, error)
	PingErr   error
}

// NewMockDistributedLock creates a new mock distributed lock.
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{
		expiries: make(map[string]time.Time),
		Now:      time.Now,
	}
}

// Acquire takes the named lock unless another holder's TTL is still running.
func (m *MockDistributedLock) Acquire(_ context.Context, name string, ttl time.Duration) (bool, error) {
	if m.AcquireFn != nil {
		return m.AcquireFn(name, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	if expiry, ok := m.expiries[name]; ok && now.Before(expiry) {
		return false, nil
	}
	m.expiries[name] = now.Add(ttl)
	m.acquired++
	return true, nil
}

// Release drops the named lock.
func (m *MockDistributedLock) Release(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expiries, name)
	return nil
}

func (m *MockDistributedLock) Ping(context.Context) error {
	return m.PingErr
}

// Reset forgets every lock and the acquisition count.
func (m *MockDistributedLock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiries = make(map[string]time.Time)
	m.acquired = 0
}

// IsHeld reports whether name is locked right now.
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.expiries[name]
	return ok && m.Now().Before(expiry)
}

// SetLockHeld simulates another replica holding name for ttl.
func (m *MockDistributedLock) SetLockHeld(name string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expiries[name] = m.Now().Add(ttl)
}

// Acquired counts successful acquisitions.
func (m *MockDistributedLock) Acquired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired
}
