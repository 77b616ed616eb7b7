package eventbus

import (
	"testing"
	"time"
)

const typeTest Type = "test"

// TestEventPriorityOrdering mirrors spec §8 scenario S6: publish
// low-A, critical-B, normal-C, critical-D, then process_pending(max=4)
// delivers B, D, C, A.
func TestEventPriorityOrdering(t *testing.T) {
	b := New(Options{})
	var labels []string
	b.Subscribe(typeTest, 1, func(e Event) error {
		labels = append(labels, e.Payload.(string))
		return nil
	}, nil, PriorityLow)

	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityLow, Payload: "low-A"}))
	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityCritical, Payload: "critical-B"}))
	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityNormal, Payload: "normal-C"}))
	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityCritical, Payload: "critical-D"}))

	n := b.ProcessPending(4, time.Second)
	if n != 4 {
		t.Fatalf("expected 4 events processed, got %d", n)
	}
	want := []string{"critical-B", "critical-D", "normal-C", "low-A"}
	if len(labels) != len(want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, labels)
		}
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestProcessPendingStopsAtMaxEvents(t *testing.T) {
	b := New(Options{})
	n := 0
	b.Subscribe(typeTest, 1, func(Event) error { n++; return nil }, nil, PriorityLow)
	for i := 0; i < 5; i++ {
		must(t, b.Publish(Event{Type: typeTest, Priority: PriorityNormal}))
	}
	processed := b.ProcessPending(2, time.Second)
	if processed != 2 || n != 2 {
		t.Fatalf("expected exactly 2 events processed, got %d (callback fired %d times)", processed, n)
	}
	if remaining := b.QueueLen(PriorityNormal); remaining != 3 {
		t.Fatalf("expected 3 events left queued, got %d", remaining)
	}
}

func TestNoQueueDeliversSynchronously(t *testing.T) {
	b := New(Options{})
	fired := false
	b.Subscribe(typeTest, 1, func(Event) error { fired = true; return nil }, nil, PriorityLow)
	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityLow, Flags: FlagNoQueue}))
	if !fired {
		t.Fatal("expected FlagNoQueue event to be delivered synchronously by Publish")
	}
	if got := b.QueueLen(PriorityLow); got != 0 {
		t.Fatalf("expected nothing queued for a no_queue event, got %d", got)
	}
}

func TestTargetedDeliverySkipsNonMatchingSubscribers(t *testing.T) {
	b := New(Options{})
	var gotA, gotB bool
	b.Subscribe(typeTest, 1, func(Event) error { gotA = true; return nil }, nil, PriorityLow)
	b.Subscribe(typeTest, 2, func(Event) error { gotB = true; return nil }, nil, PriorityLow)

	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityNormal, TargetLayer: 2}))
	b.ProcessPending(1, time.Second)

	if gotA {
		t.Error("subscriber 1 should not receive an event targeted at layer 2")
	}
	if !gotB {
		t.Error("subscriber 2 should receive the event targeted at it")
	}
}

func TestMinPriorityFiltersDelivery(t *testing.T) {
	b := New(Options{})
	delivered := false
	b.Subscribe(typeTest, 1, func(Event) error { delivered = true; return nil }, nil, PriorityHigh)

	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityNormal}))
	b.ProcessPending(1, time.Second)
	if delivered {
		t.Error("a normal-priority event should not reach a high-min-priority subscriber")
	}

	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityCritical}))
	b.ProcessPending(1, time.Second)
	if !delivered {
		t.Error("a critical event should reach a high-min-priority subscriber")
	}
}

func TestQueueFullDropsAndCounts(t *testing.T) {
	b := New(Options{MaxQueueLen: 1})
	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityLow}))
	err := b.Publish(Event{Type: typeTest, Priority: PriorityLow})
	if err == nil {
		t.Fatal("expected queue_full error on the second publish")
	}
	stats := b.Stats()
	if stats.Dropped != 1 || stats.Overflowed != 1 {
		t.Fatalf("expected dropped=1 overflowed=1, got %+v", stats)
	}
}

func TestSubscribeDedupsSameSubscriber(t *testing.T) {
	b := New(Options{})
	calls := 0
	b.Subscribe(typeTest, 1, func(Event) error { calls++; return nil }, nil, PriorityLow)
	b.Subscribe(typeTest, 1, func(Event) error { calls += 10; return nil }, nil, PriorityLow)

	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityLow}))
	b.ProcessPending(1, time.Second)
	if calls != 10 {
		t.Fatalf("expected re-subscribing id 1 to replace the callback, got calls=%d", calls)
	}
}

func TestCallbackErrorDoesNotStopOtherSubscribers(t *testing.T) {
	b := New(Options{})
	var secondCalled bool
	b.Subscribe(typeTest, 1, func(Event) error { return errBoom }, nil, PriorityLow)
	b.Subscribe(typeTest, 2, func(Event) error { secondCalled = true; return nil }, nil, PriorityLow)

	must(t, b.Publish(Event{Type: typeTest, Priority: PriorityLow}))
	b.ProcessPending(1, time.Second)

	if !secondCalled {
		t.Error("a failing subscriber must not block delivery to the next subscriber")
	}
	if b.LastError() == nil {
		t.Error("expected the callback error to be recorded as LastError")
	}
}

type sentinelErr struct{}

func (sentinelErr) Error() string { return "boom" }

var errBoom error = sentinelErr{}

func TestCleanupRunsAfterAllSubscribers(t *testing.T) {
	b := New(Options{})
	var order []string
	b.Subscribe(typeTest, 1, func(Event) error { order = append(order, "sub"); return nil }, nil, PriorityLow)

	must(t, b.Publish(Event{
		Type:     typeTest,
		Priority: PriorityLow,
		Cleanup:  func() { order = append(order, "cleanup") },
	}))
	b.ProcessPending(1, time.Second)

	if len(order) != 2 || order[0] != "sub" || order[1] != "cleanup" {
		t.Fatalf("expected [sub cleanup], got %v", order)
	}
}
