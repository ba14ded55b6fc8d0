package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
)

func (f *fixture) confirm() *ConfirmAppointment {
	uc := NewConfirmAppointment(f.store, f.lanes, f.events, nil)
	uc.Clock = f.clock
	return uc
}

func (f *fixture) cancel() *CancelAppointment {
	uc := NewCancelAppointment(f.store, f.provider, f.lanes, f.events, nil)
	uc.Clock = f.clock
	return uc
}

func (f *fixture) complete() *CompleteAppointment {
	uc := NewCompleteAppointment(f.store, f.provider, f.lanes, f.events, nil)
	uc.Clock = f.clock
	return uc
}

func TestConfirm_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "10:00", "11999990001").Appointment

	first, err := f.confirm().Execute(ctx, f.shop.ID, nil, ap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != string(domain.StatusConfirmed) || first.ConfirmedAt == nil {
		t.Fatalf("unexpected appointment %+v", first)
	}

	second, err := f.confirm().Execute(ctx, f.shop.ID, nil, ap.ID)
	if err != nil {
		t.Fatalf("confirming twice should not fail: %v", err)
	}
	if second.Status != string(domain.StatusConfirmed) {
		t.Errorf("expected confirmed, got %s", second.Status)
	}

	if n := f.events.count(notify.AppointmentConfirmed); n != 1 {
		t.Errorf("expected one confirmed event, got %d", n)
	}
}

func TestConfirm_RejectsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "10:00", "11999990001").Appointment

	if _, err := f.cancel().Execute(ctx, f.shop.ID, nil, ap.ID); err != nil {
		t.Fatal(err)
	}

	_, err := f.confirm().Execute(ctx, f.shop.ID, nil, ap.ID)
	if !httperr.Is(err, httperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestCancel_FreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "10:00", "11999990001").Appointment

	cancelled, err := f.cancel().Execute(ctx, f.shop.ID, nil, ap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != string(domain.StatusCancelled) || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected appointment %+v", cancelled)
	}

	if _, err := f.create().Execute(ctx, f.input("10:00", f.haircut, "11999990002")); err != nil {
		t.Fatalf("cancelled slot should be bookable again: %v", err)
	}

	if _, err := f.cancel().Execute(ctx, f.shop.ID, nil, ap.ID); !httperr.Is(err, httperr.KindInvalidTransition) {
		t.Errorf("cancelling twice: expected invalid transition, got %v", err)
	}
}

func TestCancel_RenumbersQueue(t *testing.T) {
	f := newFixture(t, withQueue(10))
	ctx := context.Background()

	a := f.book(t, "09:00", "11999990001").Appointment
	b := f.book(t, "09:30", "11999990002").Appointment
	c := f.book(t, "10:00", "11999990003").Appointment

	if _, err := f.cancel().Execute(ctx, f.shop.ID, nil, b.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := f.store.GetQueueEntryByAppointment(ctx, f.shop.ID, b.ID); !httperr.Is(err, httperr.KindNotFound) {
		t.Errorf("cancelled appointment must leave the queue, got %v", err)
	}

	if e := f.queueEntry(t, a.ID); e.Position != 1 || e.EstimatedWait != 25 {
		t.Errorf("first entry should stay at 1, got %d/%d", e.Position, e.EstimatedWait)
	}
	if e := f.queueEntry(t, c.ID); e.Position != 2 || e.EstimatedWait != 50 {
		t.Errorf("last entry should move to 2, got %d/%d", e.Position, e.EstimatedWait)
	}

	if n := f.events.count(notify.QueuePositionChanged); n != 1 {
		t.Errorf("expected one position change event, got %d", n)
	}
}

func TestComplete_LeavesQueueButKeepsSlot(t *testing.T) {
	f := newFixture(t, withQueue(10))
	ctx := context.Background()

	a := f.book(t, "09:00", "11999990001").Appointment
	b := f.book(t, "09:30", "11999990002").Appointment

	done, err := f.complete().Execute(ctx, f.shop.ID, nil, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != string(domain.StatusCompleted) || done.CompletedAt == nil {
		t.Fatalf("unexpected appointment %+v", done)
	}

	if e := f.queueEntry(t, b.ID); e.Position != 1 {
		t.Errorf("expected remaining entry at 1, got %d", e.Position)
	}

	// concluído continua ocupando o horário
	_, err = f.create().Execute(ctx, f.input("09:00", f.haircut, "11999990003"))
	if !httperr.Is(err, httperr.KindSlotUnavailable) {
		t.Errorf("completed appointment should keep its slot, got %v", err)
	}

	if _, err := f.complete().Execute(ctx, f.shop.ID, nil, a.ID); !httperr.Is(err, httperr.KindInvalidTransition) {
		t.Errorf("completing twice: expected invalid transition, got %v", err)
	}
}

func TestTransitions_ScopedByBarbershop(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, "10:00", "11999990001").Appointment

	_, err := f.cancel().Execute(context.Background(), f.shop.ID+100, nil, ap.ID)
	if !httperr.Is(err, httperr.KindNotFound) {
		t.Fatalf("expected not found for another shop, got %v", err)
	}
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	f.book(t, "10:00", "11999990001")

	uc := NewGetAvailability(f.store, f.provider)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BarbershopID: f.shop.ID,
		BarberID:     f.barber.ID,
		ServiceID:    f.haircut.ID,
		Date:         date,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]bool{}
	for _, s := range slots {
		got[s.Time] = s.Available
	}
	if got["10:00"] {
		t.Error("booked slot should be unavailable")
	}
	if !got["09:00"] || !got["10:30"] {
		t.Error("neighbour slots should stay available")
	}

	_, err = uc.Execute(context.Background(), domain.AvailabilityInput{
		BarbershopID: f.shop.ID,
		BarberID:     f.barber.ID,
		Date:         date,
	})
	if !httperr.IsBusiness(err, "invalid_duration") {
		t.Errorf("missing service and duration: expected invalid_duration, got %v", err)
	}
}

func TestListAndProtocolLookup(t *testing.T) {
	f := newFixture(t, withQueue(10))
	ctx := context.Background()

	a := f.book(t, "11:00", "11999990001").Appointment
	f.book(t, "09:00", "11999990002")

	byDate, err := NewListAppointmentsByDate(f.store).Execute(ctx, f.shop.ID, 0, testDate)
	if err != nil {
		t.Fatal(err)
	}
	if len(byDate) != 2 || byDate[0].Time != "09:00" || byDate[1].EndTime != "11:30" {
		t.Errorf("unexpected day listing %+v", byDate)
	}

	byMonth, err := NewListAppointmentsByMonth(f.store).Execute(ctx, f.shop.ID, f.barber.ID, 2026, 10)
	if err != nil || len(byMonth) != 2 {
		t.Fatalf("unexpected month listing %d, %v", len(byMonth), err)
	}

	if _, err := NewListAppointmentsByMonth(f.store).Execute(ctx, f.shop.ID, 0, 2026, 13); !httperr.IsBusiness(err, "invalid_month") {
		t.Errorf("expected invalid_month, got %v", err)
	}

	view, err := NewGetByProtocol(f.store).Execute(ctx, f.shop.ID, " "+a.Protocol+" ")
	if err != nil {
		t.Fatal(err)
	}
	if view.Appointment.ID != a.ID || view.Queue == nil || view.Queue.Position == nil || *view.Queue.Position != 1 {
		t.Errorf("unexpected protocol view %+v", view)
	}
}
