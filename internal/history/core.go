package history

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lusush/lusush/internal/errs"
)

const defaultMaxCommandLen = 64 * 1024 // 64 KiB, spec §4.4

// Options configures a Core at construction time.
type Options struct {
	IgnoreSpacePrefix bool
	MaxCommandLen     int // 0 uses the 64 KiB default
	MaxEntries        int // 0 means unbounded
	UseIDIndex        bool
}

// Stats aggregates operation counts and cumulative microseconds, per
// spec §4.4.
type Stats struct {
	AddCount            int64
	AddTotalMicros      int64
	RetrieveCount       int64
	RetrieveTotalMicros int64
}

// Core is the concurrency-safe history store. A readers-writer lock
// protects entry storage and the id index; timing counters are atomic
// so read paths never need to upgrade their lock.
type Core struct {
	mu sync.RWMutex

	entries []*Entry // dynamic array in insertion order
	head    *Entry
	tail    *Entry
	byID    map[int]*Entry // nil unless UseIDIndex

	nextID int

	opts Options

	addCount, addMicros           atomic.Int64
	retrieveCount, retrieveMicros atomic.Int64
}

// New constructs an empty history core.
func New(opts Options) *Core {
	if opts.MaxCommandLen <= 0 {
		opts.MaxCommandLen = defaultMaxCommandLen
	}
	c := &Core{opts: opts, nextID: 1}
	if opts.UseIDIndex {
		c.byID = make(map[int]*Entry)
	}
	return c
}

// Add appends a new entry. If IgnoreSpacePrefix is set and command
// begins with a space, Add is a silent no-op: it returns (0, nil)
// without incrementing count. Zero-length commands fail with
// InvalidParameter; commands longer than MaxCommandLen fail with
// BufferOverflow; once MaxEntries is reached, Add fails with
// BufferOverflow without modifying storage.
func (c *Core) Add(command string, exitCode int) (int, error) {
	start := time.Now()
	defer func() {
		c.addCount.Add(1)
		c.addMicros.Add(time.Since(start).Microseconds())
	}()

	if c.opts.IgnoreSpacePrefix && strings.HasPrefix(command, " ") {
		return 0, nil
	}
	if len(command) == 0 {
		return 0, errs.New(errs.InvalidParameter, "command must not be empty").At("history.Add")
	}
	if len(command) > c.opts.MaxCommandLen {
		return 0, errs.New(errs.BufferOverflow, "command length %d exceeds limit %d", len(command), c.opts.MaxCommandLen).At("history.Add")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opts.MaxEntries > 0 && len(c.entries) >= c.opts.MaxEntries {
		return 0, errs.New(errs.BufferOverflow, "history is at capacity (%d entries)", c.opts.MaxEntries).At("history.Add")
	}

	e := &Entry{
		ID:           c.nextID,
		Command:      command,
		Length:       len(command),
		TimestampSec: time.Now().Unix(),
		ExitCode:     exitCode,
		State:        StateActive,
		IsMultiline:  strings.Contains(command, "\n"),
	}
	c.nextID++

	// Array grows by append, which the Go runtime doubles internally;
	// the bound above already enforces MaxEntries before this point.
	c.entries = append(c.entries, e)

	e.prev = c.tail
	if c.tail != nil {
		c.tail.next = e
	} else {
		c.head = e
	}
	c.tail = e

	if c.byID != nil {
		c.byID[e.ID] = e
	}

	return e.ID, nil
}

// GetByIndex returns the entry at array position i (O(1)).
func (c *Core) GetByIndex(i int) (*Entry, error) {
	start := time.Now()
	c.mu.RLock()
	defer func() {
		c.mu.RUnlock()
		c.retrieveCount.Add(1)
		c.retrieveMicros.Add(time.Since(start).Microseconds())
	}()

	if i < 0 || i >= len(c.entries) {
		return nil, errs.New(errs.OutOfRange, "index %d out of range [0,%d)", i, len(c.entries)).At("history.GetByIndex")
	}
	return c.entries[i], nil
}

// GetByID returns the entry with the given id: O(1) when the core was
// constructed with UseIDIndex, otherwise a linear scan.
func (c *Core) GetByID(id int) (*Entry, error) {
	start := time.Now()
	c.mu.RLock()
	defer func() {
		c.mu.RUnlock()
		c.retrieveCount.Add(1)
		c.retrieveMicros.Add(time.Since(start).Microseconds())
	}()

	if c.byID != nil {
		if e, ok := c.byID[id]; ok {
			return e, nil
		}
		return nil, errs.New(errs.InvalidParameter, "no history entry with id %d", id).At("history.GetByID")
	}
	for e := c.head; e != nil; e = e.next {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errs.New(errs.InvalidParameter, "no history entry with id %d", id).At("history.GetByID")
}

// Count returns the total number of entries (any state).
func (c *Core) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries and resets the id index. It does not reset
// the id counter, so new entries continue from the next unused id.
func (c *Core) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.head, c.tail = nil, nil
	if c.byID != nil {
		c.byID = make(map[int]*Entry)
	}
}

// Stats returns a snapshot of aggregate operation counters.
func (c *Core) Stats() Stats {
	return Stats{
		AddCount:            c.addCount.Load(),
		AddTotalMicros:      c.addMicros.Load(),
		RetrieveCount:       c.retrieveCount.Load(),
		RetrieveTotalMicros: c.retrieveMicros.Load(),
	}
}
