package thinwrap

import (
	"sync"
	"sync/atomic"
)

// EventType identifies a handle lifecycle transition.
type EventType uint8

const (
	// EventCreated fires when a wrapper adopts a raw handle.
	EventCreated EventType = iota
	// EventReleased fires after the release function ran.
	EventReleased
	// EventExtracted fires when ownership leaves the wrapper through
	// Unwrap or ToRaw.
	EventExtracted
	// EventLeaked fires when a collector releases a handle whose wrapper
	// was garbage collected while still owning.
	EventLeaked
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventReleased:
		return "released"
	case EventExtracted:
		return "extracted"
	case EventLeaked:
		return "leaked"
	default:
		return "unknown"
	}
}

// Event is a handle lifecycle notification.
type Event struct {
	Handle any
	Kind   string
	Type   EventType
	Bound  bool
}

// Observer receives handle lifecycle events. Observers run synchronously on
// the goroutine performing the transition and must not block.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts an ordinary function to Observer.
type ObserverFunc func(Event)

// OnHandleEvent calls f(e).
func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }

type subscription struct {
	id uint64
	o  Observer
}

var (
	obsMu   sync.Mutex
	obsSeq  uint64
	obsList atomic.Pointer[[]subscription]
)

// Subscribe registers o for all handle events and returns a function that
// removes it.
func Subscribe(o Observer) (unsubscribe func()) {
	obsMu.Lock()
	defer obsMu.Unlock()

	obsSeq++
	id := obsSeq
	var next []subscription
	if cur := obsList.Load(); cur != nil {
		next = append(next, *cur...)
	}
	next = append(next, subscription{id: id, o: o})
	obsList.Store(&next)

	return func() {
		obsMu.Lock()
		defer obsMu.Unlock()
		cur := obsList.Load()
		if cur == nil {
			return
		}
		kept := make([]subscription, 0, len(*cur))
		for _, s := range *cur {
			if s.id != id {
				kept = append(kept, s)
			}
		}
		obsList.Store(&kept)
	}
}

func observed() bool {
	cur := obsList.Load()
	return cur != nil && len(*cur) > 0
}

func notify(e Event) {
	cur := obsList.Load()
	if cur == nil {
		return
	}
	for _, s := range *cur {
		s.o.OnHandleEvent(e)
	}
}
