package appointment

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
)

func TestCreateAppointment_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.create().Execute(context.Background(), f.input("10:00", f.haircut, "(11) 98765-4321"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ap := res.Appointment
	if ap.ID == 0 || ap.Protocol == "" {
		t.Fatalf("appointment not persisted: %+v", ap)
	}
	if ap.Status != string(domain.StatusPending) {
		t.Errorf("expected pending, got %s", ap.Status)
	}
	if ap.ClientPhone != "11987654321" {
		t.Errorf("phone should be normalized, got %s", ap.ClientPhone)
	}
	if ap.DurationMin != 30 {
		t.Errorf("duration should come from the service, got %d", ap.DurationMin)
	}
	if res.QueueEntry != nil {
		t.Error("queue disabled: no entry expected")
	}

	stored, err := f.store.GetAppointmentByProtocol(context.Background(), f.shop.ID, ap.Protocol)
	if err != nil || stored.ID != ap.ID {
		t.Fatalf("lookup by protocol failed: %v", err)
	}

	if f.events.count(notify.AppointmentCreated) != 1 {
		t.Errorf("expected one appointment.created event, got %v", f.events.kinds())
	}
}

func TestCreateAppointment_NormalizesTime(t *testing.T) {
	f := newFixture(t)

	res, err := f.create().Execute(context.Background(), f.input(" 10:30 ", f.haircut, "11999990000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Appointment.Time != "10:30" {
		t.Errorf("expected 10:30, got %q", res.Appointment.Time)
	}
}

func TestCreateAppointment_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		opts     []fixtureOption
		mutate   func(f *fixture, in *CreateAppointmentInput)
		wantKind httperr.Kind
		wantCode string
	}{
		{
			name:     "bad phone",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.ClientPhone = "abc" },
			wantKind: httperr.KindValidation,
			wantCode: "invalid_client_phone",
		},
		{
			name:     "bad name",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.ClientName = " x " },
			wantKind: httperr.KindValidation,
			wantCode: "invalid_client_name",
		},
		{
			name:     "bad time",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Time = "25:00" },
			wantKind: httperr.KindValidation,
			wantCode: "invalid_time",
		},
		{
			name:     "bad date",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Date = "19/10/2026" },
			wantKind: httperr.KindValidation,
			wantCode: "invalid_date",
		},
		{
			name:     "off grid",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Time = "10:15" },
			wantKind: httperr.KindSlotUnavailable,
			wantCode: "slot_unavailable",
		},
		{
			name:     "lunch",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Time = "12:30" },
			wantKind: httperr.KindSlotUnavailable,
			wantCode: "slot_unavailable",
		},
		{
			name:     "sunday",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Date = "2026-10-25" },
			wantKind: httperr.KindSlotUnavailable,
			wantCode: "slot_unavailable",
		},
		{
			name:     "in the past",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Date = "2026-10-12" },
			wantKind: httperr.KindValidation,
			wantCode: "too_soon",
		},
		{
			name:     "before min advance",
			opts:     []fixtureOption{withMinAdvance(120)},
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.Time = "09:30" },
			wantKind: httperr.KindValidation,
			wantCode: "too_soon",
		},
		{
			name:     "unknown service",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.ServiceID = 999 },
			wantKind: httperr.KindNotFound,
			wantCode: "service_not_found",
		},
		{
			name:     "unknown barber",
			mutate:   func(f *fixture, in *CreateAppointmentInput) { in.BarberID = 999 },
			wantKind: httperr.KindNotFound,
			wantCode: "barber_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts...)
			in := f.input("10:00", f.haircut, "11999990000")
			tt.mutate(f, &in)

			_, err := f.create().Execute(context.Background(), in)
			if !httperr.Is(err, tt.wantKind) || !httperr.IsBusiness(err, tt.wantCode) {
				t.Fatalf("expected %s/%s, got %v", tt.wantKind, tt.wantCode, err)
			}

			apps, _ := f.store.ListAppointmentsForPeriod(context.Background(), f.shop.ID, 0, "2026-01-01", "2027-01-01")
			if len(apps) != 0 {
				t.Errorf("rejected request must not write, found %d appointments", len(apps))
			}
		})
	}
}

func TestCreateAppointment_UnavailableBarber(t *testing.T) {
	f := newFixture(t)
	f.barber.Available = false
	if err := f.store.UpdateBarber(context.Background(), f.barber); err != nil {
		t.Fatal(err)
	}

	_, err := f.create().Execute(context.Background(), f.input("10:00", f.haircut, "11999990000"))
	if !httperr.IsBusiness(err, "professional_unavailable") {
		t.Fatalf("expected professional_unavailable, got %v", err)
	}
}

func TestCreateAppointment_DoubleBookingAndOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.create().Execute(ctx, f.input("10:00", f.combo, "11999990001")); err != nil {
		t.Fatal(err)
	}

	for _, hm := range []string{"10:00", "10:30"} {
		_, err := f.create().Execute(ctx, f.input(hm, f.haircut, "11999990002"))
		if !httperr.Is(err, httperr.KindSlotUnavailable) {
			t.Errorf("%s: expected slot unavailable, got %v", hm, err)
		}
	}

	// encostar no início ou no fim não conflita
	for _, hm := range []string{"09:30", "11:00"} {
		if _, err := f.create().Execute(ctx, f.input(hm, f.haircut, "11999990003")); err != nil {
			t.Errorf("%s: unexpected error %v", hm, err)
		}
	}
}

func TestCreateAppointment_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	uc := f.create()

	const workers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := f.input("15:00", f.haircut, "1199999000"+string(rune('0'+i)))
			_, err := uc.Execute(context.Background(), in)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case httperr.Is(err, httperr.KindSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 || conflicts != workers-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d/%d", workers-1, successes, conflicts)
	}

	apps, _ := f.store.ListAppointmentsForDay(context.Background(), f.barber.ID, testDate)
	if len(apps) != 1 {
		t.Errorf("expected exactly one stored appointment, got %d", len(apps))
	}
}

func TestCreateAppointment_RetriesProtocolCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		queue = []string{"260101-0800-AAAA", "260101-0800-AAAA", "260101-0800-AAAA", "260101-0800-BBBB"}
	)
	uc := f.create()
	uc.NewProtocol = func(time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		p := queue[0]
		queue = queue[1:]
		return p
	}

	first, err := uc.Execute(ctx, f.input("10:00", f.haircut, "11999990001"))
	if err != nil {
		t.Fatal(err)
	}

	second, err := uc.Execute(ctx, f.input("11:00", f.haircut, "11999990002"))
	if err != nil {
		t.Fatalf("collision should be retried, got %v", err)
	}

	if first.Appointment.Protocol == second.Appointment.Protocol {
		t.Fatalf("protocols must be unique, both are %s", first.Appointment.Protocol)
	}
	if second.Appointment.Protocol != "260101-0800-BBBB" {
		t.Errorf("expected retried protocol, got %s", second.Appointment.Protocol)
	}
}

func TestCreateAppointment_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uc := f.create()
	uc.NewProtocol = func(time.Time) string { return "260101-0800-AAAA" }

	if _, err := uc.Execute(ctx, f.input("10:00", f.haircut, "11999990001")); err != nil {
		t.Fatal(err)
	}

	_, err := uc.Execute(ctx, f.input("11:00", f.haircut, "11999990002"))
	if !httperr.IsUniqueViolation(err, protocolConstraint) {
		t.Fatalf("expected protocol unique violation, got %v", err)
	}
}

func TestCreateAppointment_AutoEnqueue(t *testing.T) {
	f := newFixture(t, withQueue(2))

	a := f.book(t, "09:00", "11999990001")
	b := f.book(t, "09:30", "11999990002")
	c := f.book(t, "10:00", "11999990003")

	if a.QueueEntry == nil || a.QueueEntry.Position != 1 || a.QueueEntry.EstimatedWait != 25 {
		t.Fatalf("unexpected first entry %+v", a.QueueEntry)
	}
	if b.QueueEntry == nil || b.QueueEntry.Position != 2 || b.QueueEntry.EstimatedWait != 50 {
		t.Fatalf("unexpected second entry %+v", b.QueueEntry)
	}
	if a.Appointment.Status != string(domain.StatusInQueue) {
		t.Errorf("enqueued appointment should be inqueue, got %s", a.Appointment.Status)
	}

	// fila cheia não derruba o agendamento
	if c.QueueEntry != nil {
		t.Errorf("queue full: expected no entry, got %+v", c.QueueEntry)
	}
	if c.Appointment.Status != string(domain.StatusPending) {
		t.Errorf("expected pending outside the queue, got %s", c.Appointment.Status)
	}

	created := f.events.events[len(f.events.events)-2]
	if created.Kind != notify.AppointmentCreated || created.Position != 2 {
		t.Errorf("created event should carry the queue position, got %+v", created)
	}
}

func TestCreateAppointment_OversizedDurationCannotDoubleBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// serviço gravado fora do catálogo, sem passar pela validação
	huge := &models.Service{BarbershopID: f.shop.ID, Name: "Maratona", DurationMin: math.MaxInt - 10, Visible: true}
	if err := f.store.CreateService(ctx, huge); err != nil {
		t.Fatal(err)
	}

	if _, err := f.create().Execute(ctx, f.input("10:00", huge, "11987654321")); !httperr.IsBusiness(err, "invalid_duration") {
		t.Fatalf("expected invalid_duration, got %v", err)
	}

	legacy := &models.Appointment{
		BarbershopID: f.shop.ID,
		Protocol:     "261019-0800-LEGA",
		BarberID:     f.barber.ID,
		ServiceID:    huge.ID,
		ClientName:   "Legado",
		ClientPhone:  "11911112222",
		Date:         testDate,
		Time:         "10:00",
		DurationMin:  math.MaxInt - 10,
		Status:       string(domain.StatusPending),
	}
	if err := f.store.CreateAppointment(ctx, legacy); err != nil {
		t.Fatal(err)
	}

	_, err := f.create().Execute(ctx, f.input("10:00", f.haircut, "11987654321"))
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("10:00 is held by the legacy booking, got %v", err)
	}
	if _, err := f.create().Execute(ctx, f.input("09:30", f.haircut, "11987654321")); err != nil {
		t.Fatalf("09:30 ends before the legacy booking: %v", err)
	}

	_, err = NewGetAvailability(f.store, f.provider).Execute(ctx, domain.AvailabilityInput{
		BarbershopID: f.shop.ID,
		BarberID:     f.barber.ID,
		DurationMin:  math.MaxInt - 10,
		Date:         time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	})
	if !httperr.IsBusiness(err, "invalid_duration") {
		t.Errorf("availability: expected invalid_duration, got %v", err)
	}
}
