// Package quota tracks a daily unit budget shared by calls to a metered API.
package quota

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrExhausted is returned when a reservation would exceed the daily budget.
var ErrExhausted = errors.New("daily quota exhausted")

// Guard reserves units from a daily budget before a call is made.
type Guard interface {
	Reserve(ctx context.Context, units int64) error
}

// resetZone is where the YouTube Data API daily quota rolls over.
var resetZone = func() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.UTC
	}
	return loc
}()

func dayKey(t time.Time) string {
	return t.In(resetZone).Format("2006-01-02")
}

// Unlimited never refuses a reservation.
type Unlimited struct{}

func (Unlimited) Reserve(context.Context, int64) error { return nil }

// Memory is a per-process daily budget.
type Memory struct {
	mu    sync.Mutex
	limit int64
	used  int64
	day   string
	now   func() time.Time
}

func NewMemory(limit int64) *Memory {
	return &Memory{limit: limit, now: time.Now}
}

func (m *Memory) Reserve(ctx context.Context, units int64) error {
	if m.limit <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d := dayKey(m.now()); d != m.day {
		m.day = d
		m.used = 0
	}
	if m.used+units > m.limit {
		return ErrExhausted
	}
	m.used += units
	return nil
}

// Used reports the units reserved today.
func (m *Memory) Used() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dayKey(m.now()) != m.day {
		return 0
	}
	return m.used
}
