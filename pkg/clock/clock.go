// Package clock abstracts time so eligibility windows (7-day anoint spacing,
// 24-hour reforge aging, monthly allowance resets) can be tested with a
// controlled clock instead of wall time.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time. All services read time through it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a clock backed by wall time in UTC.
func System() Clock { return systemClock{} }

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake creates a fake clock fixed at the given instant.
func NewFake(at time.Time) *Fake {
	return &Fake{now: at.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the clock to an absolute instant.
func (f *Fake) Set(at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = at.UTC()
}
