package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeSink struct {
	name string
	fail bool

	mu     sync.Mutex
	events []Event
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Deliver(_ context.Context, ev Event) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	return nil
}

func (s *fakeSink) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestDispatcher_DeliversToEverySink(t *testing.T) {
	broken := &fakeSink{name: "broken", fail: true}
	ok := &fakeSink{name: "ok"}

	d := NewDispatcher(zerolog.Nop(), broken, ok)

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	d.Publish(NewEvent(AppointmentCreated, 1, 10, at))
	d.Publish(NewEvent(QueueClientCalled, 1, 11, at))
	d.Close()

	got := ok.received()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Kind != AppointmentCreated || got[1].Kind != QueueClientCalled {
		t.Errorf("events out of order: %v, %v", got[0].Kind, got[1].Kind)
	}
	if len(broken.received()) != 2 {
		t.Error("a failing sink still receives every event")
	}
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	d.Close()
	d.Close()
}

func TestNewEvent(t *testing.T) {
	at := time.Now()
	a := NewEvent(QueuePositionChanged, 3, 7, at)
	b := NewEvent(QueuePositionChanged, 3, 7, at)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("events need unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.BarbershopID != 3 || a.AppointmentID != 7 || !a.OccurredAt.Equal(at) {
		t.Errorf("unexpected event %+v", a)
	}
}

func TestChannel(t *testing.T) {
	if got := Channel(42); got != "barbershop:42:events" {
		t.Errorf("unexpected channel %s", got)
	}
}
