// Package bus is the process-wide channel that hands finalized captures
// from the capture surface to whichever dashboard is currently live, along
// with the other cross-surface notifications. Each topic is an explicit
// typed single-consumer channel: delivery order and at-most-once delivery
// are part of the type, not a property of a string-keyed broadcast.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/synctank/internal/item"
)

// Submission is a finalized capture handed off for optimistic display.
type Submission struct {
	Item item.Item
	At   time.Time
}

// HotkeyChanged notifies surfaces showing the current binding to refresh.
type HotkeyChanged struct {
	Combo string
}

// SurfaceDismissed signals that the capture surface was torn down,
// whether by submit or cancel.
type SurfaceDismissed struct {
	Submitted bool
}

// SaveResult reports the outcome of the un-awaited network save for a
// submission. A nil Err means the item reached the remote store.
type SaveResult struct {
	ID  uuid.UUID
	Err error
}

// topicBuffer is how many undelivered events a topic holds once a consumer
// has attached. Publishes never block; beyond this the oldest event is
// dropped.
const topicBuffer = 64

// topic is a single-producer-side, single-consumer typed channel. Events
// published before the consumer attaches are buffered so a capture
// survives the dashboard not having been constructed yet.
type topic[T any] struct {
	mu      sync.Mutex
	pending []T
	ch      chan T
}

func (t *topic[T]) publish(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch == nil {
		t.pending = append(t.pending, v)
		return
	}
	select {
	case t.ch <- v:
	default:
		// Consumer is not keeping up; drop the oldest to make room.
		select {
		case <-t.ch:
		default:
		}
		t.ch <- v
	}
}

func (t *topic[T]) subscribe() <-chan T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch == nil {
		t.ch = make(chan T, topicBuffer)
		for _, v := range t.pending {
			select {
			case t.ch <- v:
			default:
			}
		}
		t.pending = nil
	}
	return t.ch
}

// Bus carries all cross-surface topics. One Bus exists per process,
// constructed at startup and injected into components.
type Bus struct {
	submissions topic[Submission]
	hotkeys     topic[HotkeyChanged]
	dismissals  topic[SurfaceDismissed]
	saves       topic[SaveResult]
}

func New() *Bus {
	return &Bus{}
}

// PublishSubmission hands a finalized capture to the live dashboard.
// Never blocks; buffered until a consumer attaches.
func (b *Bus) PublishSubmission(s Submission) { b.submissions.publish(s) }

// Submissions returns the single consumer channel for finalized captures.
func (b *Bus) Submissions() <-chan Submission { return b.submissions.subscribe() }

func (b *Bus) PublishHotkeyChanged(h HotkeyChanged) { b.hotkeys.publish(h) }
func (b *Bus) HotkeyChanges() <-chan HotkeyChanged  { return b.hotkeys.subscribe() }

func (b *Bus) PublishDismissed(d SurfaceDismissed) { b.dismissals.publish(d) }
func (b *Bus) Dismissals() <-chan SurfaceDismissed { return b.dismissals.subscribe() }

func (b *Bus) PublishSaveResult(r SaveResult) { b.saves.publish(r) }
func (b *Bus) SaveResults() <-chan SaveResult { return b.saves.subscribe() }
