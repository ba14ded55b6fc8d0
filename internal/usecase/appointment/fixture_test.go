package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
	ucsettings "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/settings"
)

// segunda-feira, 08:00 UTC
var monday = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

const testDate = "2026-10-19"

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(ev notify.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Kind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recorder) count(kind notify.Kind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	store    *memory.Store
	provider *ucsettings.Provider
	lanes    *tenant.Lanes
	events   *recorder

	shop    *models.Barbershop
	barber  *models.Barber
	haircut *models.Service // 30 min
	combo   *models.Service // 60 min

	clock timezone.Clock
}

type fixtureOption func(st *models.ShopSettings)

func withQueue(maxSize int) fixtureOption {
	return func(st *models.ShopSettings) {
		st.QueueEnabled = true
		st.MaxQueueSize = maxSize
	}
}

func withMinAdvance(minutes int) fixtureOption {
	return func(st *models.ShopSettings) {
		st.MinAdvanceMinutes = minutes
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	f := &fixture{
		store:  store,
		lanes:  tenant.NewLanes(time.Second),
		events: &recorder{},
		clock:  func() time.Time { return monday },
	}

	f.shop = &models.Barbershop{Name: "Barbearia Teste", Slug: "teste", Timezone: "UTC"}
	if err := store.CreateBarbershop(ctx, f.shop); err != nil {
		t.Fatal(err)
	}

	st := settings.Defaults(f.shop.ID)
	for _, opt := range opts {
		opt(st)
	}
	if err := store.SaveSettings(ctx, st); err != nil {
		t.Fatal(err)
	}

	f.barber = &models.Barber{BarbershopID: f.shop.ID, Name: "João", Available: true}
	if err := store.CreateBarber(ctx, f.barber); err != nil {
		t.Fatal(err)
	}

	f.haircut = &models.Service{BarbershopID: f.shop.ID, Name: "Corte", DurationMin: 30, Visible: true}
	if err := store.CreateService(ctx, f.haircut); err != nil {
		t.Fatal(err)
	}
	f.combo = &models.Service{BarbershopID: f.shop.ID, Name: "Corte + Barba", DurationMin: 60, Visible: true}
	if err := store.CreateService(ctx, f.combo); err != nil {
		t.Fatal(err)
	}

	f.provider = ucsettings.NewProvider(store, cache.NewLocalSettings(time.Minute), f.lanes, nil)
	return f
}

func (f *fixture) create() *CreateAppointment {
	uc := NewCreateAppointment(f.store, f.provider, f.lanes, f.events, nil)
	uc.Clock = f.clock
	return uc
}

func (f *fixture) input(hm string, service *models.Service, phone string) CreateAppointmentInput {
	return CreateAppointmentInput{
		BarbershopID: f.shop.ID,
		BarberID:     f.barber.ID,
		ServiceID:    service.ID,
		ClientName:   "Cliente " + phone,
		ClientPhone:  phone,
		Date:         testDate,
		Time:         hm,
	}
}

func (f *fixture) book(t *testing.T, hm string, phone string) *CreateAppointmentResult {
	t.Helper()
	res, err := f.create().Execute(context.Background(), f.input(hm, f.haircut, phone))
	if err != nil {
		t.Fatalf("book %s: %v", hm, err)
	}
	return res
}

func (f *fixture) queueEntry(t *testing.T, appointmentID uint) *models.QueueEntry {
	t.Helper()
	e, err := f.store.GetQueueEntryByAppointment(context.Background(), f.shop.ID, appointmentID)
	if err != nil {
		t.Fatalf("queue entry for %d: %v", appointmentID, err)
	}
	return e
}
