// Package eventbus routes typed events between layers by priority, per
// spec §4.6. A subscribe/notify pattern over a single in-process
// listener list is extended into four priority-ordered queues with
// budgeted draining, so delivery can be deferred and rate-limited
// instead of running synchronously inline with Publish.
package eventbus

import (
	"sync"
	"time"

	"github.com/lusush/lusush/internal/errs"
)

// Priority orders event delivery; critical drains before high, before
// normal, before low.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

const numPriorities = 4

// Flags modify delivery behavior.
type Flags uint8

const (
	// FlagNoQueue requests synchronous delivery, bypassing the queue.
	FlagNoQueue Flags = 1 << iota
)

// Type identifies an event's payload kind. Callers define their own
// constants in this space; the bus itself is payload-agnostic.
type Type string

// TargetBroadcast delivers to every active subscriber of the type,
// regardless of layer id.
const TargetBroadcast = 0

// Event is one routed message, per spec §3.
type Event struct {
	Type        Type
	SourceLayer int
	TargetLayer int
	Priority    Priority
	Flags       Flags
	TimestampNs int64
	Seq         uint64
	ID          uint64
	Payload     any
	Processed   bool
	Attempts    int

	// Cleanup, if set, runs once after every matching subscriber has
	// been notified, freeing any resources the payload owns.
	Cleanup func()
}

// Callback handles one delivered event. A non-nil error is recorded as
// the bus's last error but does not stop delivery to other
// subscribers.
type Callback func(Event) error

type subscription struct {
	subscriberID int
	callback     Callback
	userData     any
	minPriority  Priority
	active       bool
}

// Stats mirrors spec §4.6's bus statistics.
type Stats struct {
	Published          uint64
	Processed          uint64
	Failed             uint64
	Dropped            uint64
	Overflowed         uint64
	MaxQueueSizeSeen   int
	TotalProcessTimeNs int64
}

// Bus is a priority-queued, budget-drained event router.
type Bus struct {
	mu            sync.Mutex
	queues        [numPriorities][]Event
	subscribers   map[Type][]*subscription
	maxQueueLen   int
	maxSubs       int
	subCount      int
	seq           uint64
	nextID        uint64
	lastErr       error
	stats         Stats
}

// Options configures capacity limits; zero values mean "unbounded".
type Options struct {
	MaxQueueLen  int
	MaxSubs      int
}

// New creates an empty bus.
func New(opts Options) *Bus {
	return &Bus{
		subscribers: make(map[Type][]*subscription),
		maxQueueLen: opts.MaxQueueLen,
		maxSubs:     opts.MaxSubs,
	}
}

// Subscribe registers callback for events of typ. Re-subscribing the
// same (typ, subscriberID) pair updates the existing registration
// instead of duplicating it, per spec §4.6's dedup rule.
func (b *Bus) Subscribe(typ Type, subscriberID int, callback Callback, userData any, minPriority Priority) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subscribers[typ] {
		if s.subscriberID == subscriberID {
			s.callback, s.userData, s.minPriority, s.active = callback, userData, minPriority, true
			return nil
		}
	}
	if b.maxSubs > 0 && b.subCount >= b.maxSubs {
		return errs.New(errs.MaxSubscribers, "bus has reached its %d subscriber limit", b.maxSubs).At("eventbus.Subscribe")
	}
	b.subscribers[typ] = append(b.subscribers[typ], &subscription{
		subscriberID: subscriberID,
		callback:     callback,
		userData:     userData,
		minPriority:  minPriority,
		active:       true,
	})
	b.subCount++
	return nil
}

// Unsubscribe removes subscriberID's registration for typ. Absence is
// harmless (spec §7's "subscriber not found" is informational).
func (b *Bus) Unsubscribe(typ Type, subscriberID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[typ]
	for i, s := range subs {
		if s.subscriberID == subscriberID {
			b.subscribers[typ] = append(subs[:i], subs[i+1:]...)
			b.subCount--
			return
		}
	}
}

// UnsubscribeAll removes every registration for subscriberID across
// all event types.
func (b *Bus) UnsubscribeAll(subscriberID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for typ, subs := range b.subscribers {
		kept := subs[:0]
		for _, s := range subs {
			if s.subscriberID == subscriberID {
				b.subCount--
				continue
			}
			kept = append(kept, s)
		}
		b.subscribers[typ] = kept
	}
}

// Publish timestamps and sequences event, then either delivers it
// synchronously (FlagNoQueue) or enqueues it by priority.
func (b *Bus) Publish(event Event) error {
	b.mu.Lock()
	event.TimestampNs = time.Now().UnixNano()
	b.seq++
	event.Seq = b.seq
	b.nextID++
	event.ID = b.nextID
	b.stats.Published++

	if event.Flags&FlagNoQueue != 0 {
		b.mu.Unlock()
		b.deliver(event)
		return nil
	}

	q := &b.queues[event.Priority]
	if b.maxQueueLen > 0 && len(*q) >= b.maxQueueLen {
		b.stats.Dropped++
		b.stats.Overflowed++
		b.mu.Unlock()
		return errs.New(errs.QueueFull, "priority %d queue is at capacity (%d)", event.Priority, b.maxQueueLen).At("eventbus.Publish")
	}
	*q = append(*q, event)
	if len(*q) > b.stats.MaxQueueSizeSeen {
		b.stats.MaxQueueSizeSeen = len(*q)
	}
	b.mu.Unlock()
	return nil
}

// ProcessPending drains queued events in strict priority order
// (critical, high, normal, low), FIFO within a priority. It stops once
// no events remain, maxEvents have been processed, or timeout elapses.
// Returns the number of events delivered.
func (b *Bus) ProcessPending(maxEvents int, timeout time.Duration) int {
	start := time.Now()
	processed := 0

	for {
		if maxEvents > 0 && processed >= maxEvents {
			break
		}
		if timeout > 0 && time.Since(start) >= timeout {
			break
		}

		event, ok := b.dequeueNext()
		if !ok {
			break
		}
		b.deliver(event)
		processed++
	}

	b.mu.Lock()
	b.stats.TotalProcessTimeNs += time.Since(start).Nanoseconds()
	b.mu.Unlock()
	return processed
}

func (b *Bus) dequeueNext() (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for p := numPriorities - 1; p >= 0; p-- {
		q := &b.queues[p]
		if len(*q) == 0 {
			continue
		}
		event := (*q)[0]
		*q = (*q)[1:]
		return event, true
	}
	return Event{}, false
}

func (b *Bus) deliver(event Event) {
	b.mu.Lock()
	subs := append([]*subscription(nil), b.subscribers[event.Type]...)
	b.mu.Unlock()

	for _, s := range subs {
		if !s.active || event.Priority < s.minPriority {
			continue
		}
		if event.TargetLayer != TargetBroadcast && s.subscriberID != event.TargetLayer {
			continue
		}
		if err := s.callback(event); err != nil {
			b.mu.Lock()
			b.lastErr = err
			b.stats.Failed++
			b.mu.Unlock()
		}
	}

	if event.Cleanup != nil {
		event.Cleanup()
	}

	b.mu.Lock()
	b.stats.Processed++
	b.mu.Unlock()
}

// Stats returns a snapshot of the bus's statistics.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// LastError returns the most recent subscriber callback error, if any.
func (b *Bus) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// QueueLen reports how many events of priority p are currently queued.
func (b *Bus) QueueLen(p Priority) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues[p])
}
