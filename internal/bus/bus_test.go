package bus_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/item"
)

func TestSubmissionBufferedUntilConsumerAttaches(t *testing.T) {
	b := bus.New()

	// Publish before anyone is listening: the capture surface may fire
	// before the dashboard was ever constructed.
	it := item.New("early capture", nil)
	b.PublishSubmission(bus.Submission{Item: it, At: time.Now()})

	select {
	case got := <-b.Submissions():
		if got.Item.ID != it.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.Item.ID, it.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("buffered submission was not delivered")
	}
}

func TestSubmissionsDeliveredOnceInOrder(t *testing.T) {
	b := bus.New()
	ch := b.Submissions()

	var want []string
	for i := 0; i < 5; i++ {
		it := item.New(fmt.Sprintf("capture %d", i), nil)
		want = append(want, it.ID.String())
		b.PublishSubmission(bus.Submission{Item: it})
	}

	for i, id := range want {
		select {
		case got := <-ch:
			if got.Item.ID.String() != id {
				t.Errorf("delivery %d: got %s, want %s", i, got.Item.ID, id)
			}
		case <-time.After(time.Second):
			t.Fatalf("delivery %d never arrived", i)
		}
	}

	select {
	case extra := <-ch:
		t.Errorf("unexpected extra delivery: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := bus.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		// No consumer ever attaches; publishes must still return.
		for i := 0; i < 500; i++ {
			b.PublishSaveResult(bus.SaveResult{Err: errors.New("boom")})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a consumer")
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	b := bus.New()
	b.PublishHotkeyChanged(bus.HotkeyChanged{Combo: "alt+l"})
	b.PublishDismissed(bus.SurfaceDismissed{Submitted: false})

	select {
	case h := <-b.HotkeyChanges():
		if h.Combo != "alt+l" {
			t.Errorf("Combo: got %q", h.Combo)
		}
	case <-time.After(time.Second):
		t.Fatal("hotkey change not delivered")
	}

	select {
	case d := <-b.Dismissals():
		if d.Submitted {
			t.Error("Submitted: want false")
		}
	case <-time.After(time.Second):
		t.Fatal("dismissal not delivered")
	}

	select {
	case s := <-b.Submissions():
		t.Errorf("submission topic should be empty, got %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}
