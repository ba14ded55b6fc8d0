package queue_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	ucqueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
	ucsettings "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/settings"
)

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

var protocolSeq uint32

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(ev notify.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) of(kind notify.Kind) []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

type env struct {
	store    *memory.Store
	provider *ucsettings.Provider
	lanes    *tenant.Lanes
	events   *recorder
	shop     *models.Barbershop
}

func newEnv(t *testing.T, queueEnabled bool, maxSize int) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{
		store:  memory.New(),
		lanes:  tenant.NewLanes(time.Second),
		events: &recorder{},
	}

	e.shop = &models.Barbershop{Name: "Fila", Slug: "fila", Timezone: "UTC"}
	if err := e.store.CreateBarbershop(ctx, e.shop); err != nil {
		t.Fatal(err)
	}

	st := settings.Defaults(e.shop.ID)
	st.QueueEnabled = queueEnabled
	st.MaxQueueSize = maxSize
	if err := e.store.SaveSettings(ctx, st); err != nil {
		t.Fatal(err)
	}

	e.provider = ucsettings.NewProvider(e.store, cache.NewLocalSettings(time.Minute), e.lanes, nil)
	return e
}

func (e *env) clock() time.Time { return now }

func (e *env) appointment(t *testing.T, status apdomain.Status) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		BarbershopID: e.shop.ID,
		BarberID:     1,
		ServiceID:    1,
		ClientName:   "Cliente",
		ClientPhone:  "11999990000",
		Date:         "2026-10-19",
		Time:         "10:00",
		DurationMin:  30,
		Status:       string(status),
	}
	ap.Protocol = fmt.Sprintf("261019-0900-%04d", atomic.AddUint32(&protocolSeq, 1))
	if err := e.store.CreateAppointment(context.Background(), ap); err != nil {
		t.Fatal(err)
	}
	return ap
}

func (e *env) enqueueUC() *ucqueue.Enqueue {
	uc := ucqueue.NewEnqueue(e.store, e.provider, e.lanes, e.events, nil)
	uc.Clock = e.clock
	return uc
}

func (e *env) callNextUC() *ucqueue.CallNext {
	uc := ucqueue.NewCallNext(e.store, e.provider, e.lanes, e.events, nil)
	uc.Clock = e.clock
	return uc
}

func (e *env) enqueue(t *testing.T, n int) []*models.Appointment {
	t.Helper()
	out := make([]*models.Appointment, 0, n)
	for i := 0; i < n; i++ {
		ap := e.appointment(t, apdomain.StatusPending)
		if _, err := e.enqueueUC().Execute(context.Background(), e.shop.ID, nil, ap.ID); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		out = append(out, ap)
	}
	return out
}

func (e *env) position(t *testing.T, appointmentID uint) *ucqueue.Position {
	t.Helper()
	pos, err := ucqueue.NewGetPosition(e.store).Execute(context.Background(), e.shop.ID, appointmentID)
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

func TestEnqueue_PositionsAndStatus(t *testing.T) {
	e := newEnv(t, true, 10)
	apps := e.enqueue(t, 3)

	for i, ap := range apps {
		pos := e.position(t, ap.ID)
		if pos.Position == nil || *pos.Position != i+1 {
			t.Errorf("appointment %d: expected position %d, got %v", ap.ID, i+1, pos.Position)
		}
		if *pos.EstimatedWait != (i+1)*settings.DefaultAvgServiceMinutes {
			t.Errorf("appointment %d: unexpected wait %d", ap.ID, *pos.EstimatedWait)
		}

		stored, _ := e.store.GetAppointment(context.Background(), e.shop.ID, ap.ID)
		if stored.Status != string(apdomain.StatusInQueue) {
			t.Errorf("expected inqueue, got %s", stored.Status)
		}
	}
}

func TestEnqueue_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		e := newEnv(t, false, 10)
		ap := e.appointment(t, apdomain.StatusPending)
		_, err := e.enqueueUC().Execute(ctx, e.shop.ID, nil, ap.ID)
		if !httperr.IsBusiness(err, "queue_disabled") || !httperr.Is(err, httperr.KindConflict) {
			t.Fatalf("expected queue_disabled conflict, got %v", err)
		}
	})

	t.Run("twice", func(t *testing.T) {
		e := newEnv(t, true, 10)
		ap := e.enqueue(t, 1)[0]
		_, err := e.enqueueUC().Execute(ctx, e.shop.ID, nil, ap.ID)
		if !httperr.IsBusiness(err, "already_in_queue") {
			t.Fatalf("expected already_in_queue, got %v", err)
		}
	})

	t.Run("full", func(t *testing.T) {
		e := newEnv(t, true, 2)
		e.enqueue(t, 2)
		ap := e.appointment(t, apdomain.StatusPending)
		_, err := e.enqueueUC().Execute(ctx, e.shop.ID, nil, ap.ID)
		if !httperr.IsBusiness(err, "queue_full") {
			t.Fatalf("expected queue_full, got %v", err)
		}
	})

	t.Run("cancelled appointment", func(t *testing.T) {
		e := newEnv(t, true, 10)
		ap := e.appointment(t, apdomain.StatusCancelled)
		_, err := e.enqueueUC().Execute(ctx, e.shop.ID, nil, ap.ID)
		if !httperr.Is(err, httperr.KindInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})
}

func TestCallNext_CallsHeadAndRenumbers(t *testing.T) {
	e := newEnv(t, true, 10)
	apps := e.enqueue(t, 3)

	res, err := e.callNextUC().Execute(context.Background(), e.shop.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Appointment.ID != apps[0].ID {
		t.Fatalf("expected first appointment to be called, got %+v", res)
	}
	if res.Appointment.Status != string(apdomain.StatusCalled) || domain.Status(res.Entry.Status) != domain.StatusCalled {
		t.Errorf("unexpected statuses %s/%s", res.Appointment.Status, res.Entry.Status)
	}

	if pos := e.position(t, apps[0].ID); pos.Position != nil || pos.QueueStatus != string(domain.StatusCalled) {
		t.Errorf("called entry should have no position, got %+v", pos)
	}
	for i, ap := range apps[1:] {
		if pos := e.position(t, ap.ID); pos.Position == nil || *pos.Position != i+1 {
			t.Errorf("appointment %d: expected position %d, got %v", ap.ID, i+1, pos.Position)
		}
	}

	if called := e.events.of(notify.QueueClientCalled); len(called) != 1 || called[0].AppointmentID != apps[0].ID {
		t.Errorf("expected one client called event, got %+v", called)
	}
	if moved := e.events.of(notify.QueuePositionChanged); len(moved) < 2 {
		t.Errorf("expected position change events for the remaining entries, got %d", len(moved))
	}
}

func TestCallNext_SequentialCallsFollowEnqueueOrder(t *testing.T) {
	e := newEnv(t, true, 10)
	apps := e.enqueue(t, 5)

	for i, want := range apps {
		res, err := e.callNextUC().Execute(context.Background(), e.shop.ID, nil)
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if res == nil || res.Appointment.ID != want.ID {
			t.Fatalf("call %d: expected appointment %d, got %+v", i+1, want.ID, res)
		}

		for j, ap := range apps[i+1:] {
			if pos := e.position(t, ap.ID); pos.Position == nil || *pos.Position != j+1 {
				t.Errorf("after call %d, appointment %d: expected position %d, got %v", i+1, ap.ID, j+1, pos.Position)
			}
		}
	}

	res, err := e.callNextUC().Execute(context.Background(), e.shop.ID, nil)
	if err != nil || res != nil {
		t.Fatalf("every entry was called once; got %+v, %v", res, err)
	}
}

func TestCallNext_EmptyQueue(t *testing.T) {
	e := newEnv(t, true, 10)

	res, err := e.callNextUC().Execute(context.Background(), e.shop.ID, nil)
	if err != nil || res != nil {
		t.Fatalf("empty queue should return nil, nil; got %+v, %v", res, err)
	}
}

func TestCallNext_ConcurrentCallersGetDistinctEntries(t *testing.T) {
	e := newEnv(t, true, 20)
	e.enqueue(t, 5)

	const callers = 8

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[uint]int{}
		nils int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.callNextUC().Execute(context.Background(), e.shop.ID, nil)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res == nil {
				nils++
				return
			}
			seen[res.Appointment.ID]++
		}()
	}
	wg.Wait()

	if len(seen) != 5 || nils != callers-5 {
		t.Fatalf("expected 5 distinct calls and %d empty results, got %v / %d", callers-5, seen, nils)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("appointment %d called %d times", id, n)
		}
	}
}

func TestCallNext_DropsStaleEntries(t *testing.T) {
	e := newEnv(t, true, 10)
	ctx := context.Background()
	apps := e.enqueue(t, 2)

	// agendamento cancelado por fora, sem limpar a fila
	stale, _ := e.store.GetAppointment(ctx, e.shop.ID, apps[0].ID)
	stale.Status = string(apdomain.StatusCancelled)
	if err := e.store.UpdateAppointment(ctx, stale); err != nil {
		t.Fatal(err)
	}

	res, err := e.callNextUC().Execute(ctx, e.shop.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Appointment.ID != apps[1].ID {
		t.Fatalf("expected the second appointment, got %+v", res)
	}

	if _, err := e.store.GetQueueEntryByAppointment(ctx, e.shop.ID, apps[0].ID); !httperr.Is(err, httperr.KindNotFound) {
		t.Errorf("stale entry should be deleted, got %v", err)
	}
}

func TestMarkOnWay(t *testing.T) {
	e := newEnv(t, true, 10)
	ctx := context.Background()
	apps := e.enqueue(t, 2)

	uc := ucqueue.NewMarkOnWay(e.store, e.provider, e.lanes, nil)
	uc.Clock = e.clock

	if _, err := uc.Execute(ctx, e.shop.ID, nil, apps[0].ID); !httperr.Is(err, httperr.KindInvalidTransition) {
		t.Fatalf("waiting client cannot be on the way, got %v", err)
	}

	if _, err := e.callNextUC().Execute(ctx, e.shop.ID, nil); err != nil {
		t.Fatal(err)
	}

	ap, err := uc.Execute(ctx, e.shop.ID, nil, apps[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if ap.Status != string(apdomain.StatusOnWay) || ap.OnWayAt == nil {
		t.Errorf("unexpected appointment %+v", ap)
	}

	if pos := e.position(t, apps[0].ID); pos.QueueStatus != string(domain.StatusOnWay) {
		t.Errorf("queue entry should follow the appointment, got %s", pos.QueueStatus)
	}
}

func TestGetPosition_NotInQueue(t *testing.T) {
	e := newEnv(t, true, 10)
	ap := e.appointment(t, apdomain.StatusPending)

	pos := e.position(t, ap.ID)
	if pos.Position != nil || pos.EstimatedWait != nil || pos.QueueStatus != "" {
		t.Errorf("expected empty position, got %+v", pos)
	}

	_, err := ucqueue.NewGetPosition(e.store).Execute(context.Background(), e.shop.ID, 999)
	if !httperr.Is(err, httperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRebuild_RepairsQueue(t *testing.T) {
	e := newEnv(t, true, 10)
	ctx := context.Background()
	apps := e.enqueue(t, 3)

	// estado corrompido: posição com buraco e agendamento já concluído
	done, _ := e.store.GetAppointment(ctx, e.shop.ID, apps[0].ID)
	done.Status = string(apdomain.StatusCompleted)
	if err := e.store.UpdateAppointment(ctx, done); err != nil {
		t.Fatal(err)
	}
	last, _ := e.store.GetQueueEntryByAppointment(ctx, e.shop.ID, apps[2].ID)
	last.Position = 7
	if err := e.store.UpdateQueueEntry(ctx, last); err != nil {
		t.Fatal(err)
	}

	uc := ucqueue.NewRebuild(e.store, e.provider, e.lanes, e.events, nil)
	uc.Clock = e.clock

	res, err := uc.Execute(ctx, e.shop.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed != 1 || res.Moved != 2 || len(res.Entries) != 2 {
		t.Fatalf("unexpected rebuild result %+v", res)
	}

	for i, ap := range apps[1:] {
		if pos := e.position(t, ap.ID); pos.Position == nil || *pos.Position != i+1 {
			t.Errorf("appointment %d: expected position %d, got %v", ap.ID, i+1, pos.Position)
		}
	}

	again, err := uc.Execute(ctx, e.shop.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Removed != 0 || again.Moved != 0 {
		t.Errorf("rebuild should be idempotent, got %+v", again)
	}
}

func TestListQueue(t *testing.T) {
	e := newEnv(t, true, 10)
	e.enqueue(t, 2)

	items, err := ucqueue.NewListQueue(e.store).Execute(context.Background(), e.shop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Position != 1 || items[1].Position != 2 {
		t.Errorf("unexpected queue listing %+v", items)
	}
	if items[0].Protocol == "" {
		t.Error("listing should carry the appointment protocol")
	}
}

func TestListQueue_WaitingFirstThenCalled(t *testing.T) {
	e := newEnv(t, true, 10)
	apps := e.enqueue(t, 4)

	if _, err := e.callNextUC().Execute(context.Background(), e.shop.ID, nil); err != nil {
		t.Fatal(err)
	}

	items, err := ucqueue.NewListQueue(e.store).Execute(context.Background(), e.shop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 live entries, got %d", len(items))
	}

	want := []uint{apps[1].ID, apps[2].ID, apps[3].ID, apps[0].ID}
	for i, item := range items {
		if item.AppointmentID != want[i] {
			t.Errorf("row %d: expected appointment %d, got %d", i, want[i], item.AppointmentID)
		}
		if item.Protocol == "" || item.ClientName == "" {
			t.Errorf("row %d: appointment details missing: %+v", i, item)
		}
	}
	for i := 0; i < 3; i++ {
		if items[i].Position != i+1 {
			t.Errorf("row %d: expected position %d, got %d", i, i+1, items[i].Position)
		}
	}
	if items[3].Position != 0 || items[3].Status != string(domain.StatusCalled) {
		t.Errorf("called entry should close the listing, got %+v", items[3])
	}
}
