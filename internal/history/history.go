// Package history keeps a bounded log of recent fd and rg invocations.
package history

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Invocation describes one external tool run and what came of it.
type Invocation struct {
	ID            string        `json:"id"`
	Operation     string        `json:"operation"`
	Tool          string        `json:"tool"`
	Argv          []string      `json:"argv"`
	Duration      time.Duration `json:"duration_ns"`
	ExitCode      int           `json:"exit_code"`
	Records       int           `json:"records"`
	ParseWarnings int           `json:"parse_warnings"`
	Outcome       string        `json:"outcome"`
	Truncated     bool          `json:"truncated"`
	StartedAt     time.Time     `json:"started_at"`
}

// Log provides thread-safe LRU storage of invocations. Once full, the oldest
// invocation is evicted.
type Log struct {
	cache *lru.Cache[string, *Invocation]
	seq   atomic.Uint64
}

// New creates a log holding at most size invocations.
func New(size int) (*Log, error) {
	c, err := lru.New[string, *Invocation](size)
	if err != nil {
		return nil, err
	}
	return &Log{cache: c}, nil
}

// Record assigns inv an ID, stores it and returns the ID.
func (l *Log) Record(inv Invocation) string {
	inv.ID = fmt.Sprintf("inv-%06d", l.seq.Add(1))
	l.cache.Add(inv.ID, &inv)
	return inv.ID
}

// Get returns the invocation with the given ID without refreshing its age.
func (l *Log) Get(id string) (*Invocation, bool) {
	return l.cache.Peek(id)
}

// Recent returns stored invocations, newest first.
func (l *Log) Recent() []*Invocation {
	invs := l.cache.Values()
	slices.Reverse(invs)
	return invs
}

// Len returns the current number of stored invocations.
func (l *Log) Len() int {
	return l.cache.Len()
}
