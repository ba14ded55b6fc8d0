package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

// Store é o armazenamento em memória usado no modo demo (--store=memory) e
// como dublê nos testes. Transações trabalham sobre uma cópia do estado e
// só publicam no commit; escritas são serializadas.
type Store struct {
	txMu *sync.Mutex
	mu   *sync.RWMutex
	d    *data
	inTx bool

	now func() time.Time
}

type data struct {
	nextID uint

	shops        map[uint]models.Barbershop
	settings     map[uint]models.ShopSettings
	services     map[uint]models.Service
	barbers      map[uint]models.Barber
	clients      map[uint]models.Client
	appointments map[uint]models.Appointment
	queue        map[uint]models.QueueEntry
	blocks       map[uint]models.BlockedSlot
	overrides    map[uint]models.BarberAvailability
	audit        []models.AuditLog
}

func newData() *data {
	return &data{
		shops:        map[uint]models.Barbershop{},
		settings:     map[uint]models.ShopSettings{},
		services:     map[uint]models.Service{},
		barbers:      map[uint]models.Barber{},
		clients:      map[uint]models.Client{},
		appointments: map[uint]models.Appointment{},
		queue:        map[uint]models.QueueEntry{},
		blocks:       map[uint]models.BlockedSlot{},
		overrides:    map[uint]models.BarberAvailability{},
	}
}

func cloneMap[T any](m map[uint]T) map[uint]T {
	out := make(map[uint]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *data) clone() *data {
	return &data{
		nextID:       d.nextID,
		shops:        cloneMap(d.shops),
		settings:     cloneMap(d.settings),
		services:     cloneMap(d.services),
		barbers:      cloneMap(d.barbers),
		clients:      cloneMap(d.clients),
		appointments: cloneMap(d.appointments),
		queue:        cloneMap(d.queue),
		blocks:       cloneMap(d.blocks),
		overrides:    cloneMap(d.overrides),
		audit:        append([]models.AuditLog(nil), d.audit...),
	}
}

func (d *data) id() uint {
	d.nextID++
	return d.nextID
}

func New() *Store {
	return &Store{
		txMu: &sync.Mutex{},
		mu:   &sync.RWMutex{},
		d:    newData(),
		now:  time.Now,
	}
}

// WithClock troca o relógio usado nos timestamps de criação.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.d)
}

func (s *Store) write(fn func(d *data) error) error {
	if !s.inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// --------------------------------------------------
// Transaction / locks
// --------------------------------------------------

func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if s.inTx {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	tx := &Store{
		txMu: s.txMu,
		mu:   &sync.RWMutex{},
		d:    snapshot,
		inTx: true,
		now:  s.now,
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.d = tx.d
	s.mu.Unlock()
	return nil
}

// Transações já são serializadas por txMu.
func (s *Store) LockSchedule(ctx context.Context, barberID uint, date string) error {
	return ctx.Err()
}

func (s *Store) LockQueue(ctx context.Context, barbershopID uint) error {
	return ctx.Err()
}

// --------------------------------------------------
// Barbershop / settings
// --------------------------------------------------

func (s *Store) CreateBarbershop(ctx context.Context, shop *models.Barbershop) error {
	return s.write(func(d *data) error {
		for _, other := range d.shops {
			if other.Slug == shop.Slug {
				return uniqueViolation("idx_barbershops_slug")
			}
		}
		shop.ID = d.id()
		shop.CreatedAt = s.now()
		shop.UpdatedAt = shop.CreatedAt
		d.shops[shop.ID] = *shop
		return nil
	})
}

func (s *Store) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	var (
		shop models.Barbershop
		ok   bool
	)
	s.read(func(d *data) { shop, ok = d.shops[id] })
	if !ok {
		return nil, httperr.ErrNotFound("barbershop_not_found")
	}
	return &shop, nil
}

func (s *Store) GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error) {
	var (
		shop models.Barbershop
		ok   bool
	)
	s.read(func(d *data) {
		for _, sh := range d.shops {
			if sh.Slug == slug {
				shop, ok = sh, true
				return
			}
		}
	})
	if !ok {
		return nil, httperr.ErrNotFound("barbershop_not_found")
	}
	return &shop, nil
}

func (s *Store) GetSettings(ctx context.Context, barbershopID uint) (*models.ShopSettings, error) {
	var (
		st models.ShopSettings
		ok bool
	)
	s.read(func(d *data) { st, ok = d.settings[barbershopID] })
	if !ok {
		return nil, httperr.ErrNotFound("settings_not_found")
	}
	return &st, nil
}

func (s *Store) SaveSettings(ctx context.Context, st *models.ShopSettings) error {
	return s.write(func(d *data) error {
		if prev, ok := d.settings[st.BarbershopID]; ok {
			st.ID = prev.ID
			st.CreatedAt = prev.CreatedAt
		} else {
			st.ID = d.id()
			st.CreatedAt = s.now()
		}
		st.UpdatedAt = s.now()
		d.settings[st.BarbershopID] = *st
		return nil
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *Store) ListServices(ctx context.Context, barbershopID uint, onlyVisible bool) ([]models.Service, error) {
	var out []models.Service
	s.read(func(d *data) {
		for _, sv := range d.services {
			if sv.BarbershopID == barbershopID && (!onlyVisible || sv.Visible) {
				out = append(out, sv)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	var (
		sv models.Service
		ok bool
	)
	s.read(func(d *data) { sv, ok = d.services[serviceID] })
	if !ok || sv.BarbershopID != barbershopID {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return &sv, nil
}

func (s *Store) CreateService(ctx context.Context, sv *models.Service) error {
	return s.write(func(d *data) error {
		sv.ID = d.id()
		sv.CreatedAt = s.now()
		sv.UpdatedAt = sv.CreatedAt
		d.services[sv.ID] = *sv
		return nil
	})
}

func (s *Store) UpdateService(ctx context.Context, sv *models.Service) error {
	return s.write(func(d *data) error {
		if _, ok := d.services[sv.ID]; !ok {
			return httperr.ErrNotFound("service_not_found")
		}
		sv.UpdatedAt = s.now()
		d.services[sv.ID] = *sv
		return nil
	})
}

func (s *Store) ListBarbers(ctx context.Context, barbershopID uint, onlyAvailable bool) ([]models.Barber, error) {
	var out []models.Barber
	s.read(func(d *data) {
		for _, b := range d.barbers {
			if b.BarbershopID == barbershopID && (!onlyAvailable || b.Available) {
				out = append(out, b)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.Barber, error) {
	var (
		b  models.Barber
		ok bool
	)
	s.read(func(d *data) { b, ok = d.barbers[barberID] })
	if !ok || b.BarbershopID != barbershopID {
		return nil, httperr.ErrNotFound("barber_not_found")
	}
	return &b, nil
}

func (s *Store) CreateBarber(ctx context.Context, b *models.Barber) error {
	return s.write(func(d *data) error {
		b.ID = d.id()
		b.CreatedAt = s.now()
		b.UpdatedAt = b.CreatedAt
		d.barbers[b.ID] = *b
		return nil
	})
}

func (s *Store) UpdateBarber(ctx context.Context, b *models.Barber) error {
	return s.write(func(d *data) error {
		if _, ok := d.barbers[b.ID]; !ok {
			return httperr.ErrNotFound("barber_not_found")
		}
		b.UpdatedAt = s.now()
		d.barbers[b.ID] = *b
		return nil
	})
}

// --------------------------------------------------
// Blocked slots / overrides
// --------------------------------------------------

func (s *Store) ListBlockedSlots(ctx context.Context, barberID uint, date string) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	s.read(func(d *data) {
		for _, b := range d.blocks {
			if b.BarberID == barberID && b.Date == date {
				out = append(out, b)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (s *Store) ListBlockedSlotsForShop(ctx context.Context, barbershopID uint, date string) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	s.read(func(d *data) {
		for _, b := range d.blocks {
			if b.BarbershopID == barbershopID && (date == "" || b.Date == date) {
				out = append(out, b)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *Store) CreateBlockedSlot(ctx context.Context, b *models.BlockedSlot) error {
	return s.write(func(d *data) error {
		b.ID = d.id()
		b.CreatedAt = s.now()
		d.blocks[b.ID] = *b
		return nil
	})
}

func (s *Store) DeleteBlockedSlot(ctx context.Context, barbershopID, id uint) error {
	return s.write(func(d *data) error {
		b, ok := d.blocks[id]
		if !ok || b.BarbershopID != barbershopID {
			return httperr.ErrNotFound("blocked_slot_not_found")
		}
		delete(d.blocks, id)
		return nil
	})
}

func (s *Store) GetAvailabilityOverride(ctx context.Context, barberID uint, date string) (*models.BarberAvailability, error) {
	var (
		o  models.BarberAvailability
		ok bool
	)
	s.read(func(d *data) {
		for _, v := range d.overrides {
			if v.BarberID == barberID && v.Date == date {
				o, ok = v, true
				return
			}
		}
	})
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *Store) UpsertAvailabilityOverride(ctx context.Context, o *models.BarberAvailability) error {
	return s.write(func(d *data) error {
		for id, v := range d.overrides {
			if v.BarberID == o.BarberID && v.Date == o.Date {
				o.ID = id
				o.CreatedAt = v.CreatedAt
				o.UpdatedAt = s.now()
				d.overrides[id] = *o
				return nil
			}
		}
		o.ID = d.id()
		o.CreatedAt = s.now()
		o.UpdatedAt = o.CreatedAt
		d.overrides[o.ID] = *o
		return nil
	})
}

func (s *Store) DeleteAvailabilityOverride(ctx context.Context, barberID uint, date string) error {
	return s.write(func(d *data) error {
		for id, v := range d.overrides {
			if v.BarberID == barberID && v.Date == date {
				delete(d.overrides, id)
				return nil
			}
		}
		return httperr.ErrNotFound("override_not_found")
	})
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (s *Store) GetOrCreateClient(ctx context.Context, barbershopID uint, name, phone string) (*models.Client, error) {
	var out models.Client
	err := s.write(func(d *data) error {
		for _, c := range d.clients {
			if c.BarbershopID == barbershopID && c.Phone == phone {
				out = c
				return nil
			}
		}
		out = models.Client{
			ID:           d.id(),
			BarbershopID: barbershopID,
			Name:         name,
			Phone:        phone,
			CreatedAt:    s.now(),
		}
		out.UpdatedAt = out.CreatedAt
		d.clients[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListClients(ctx context.Context, barbershopID uint, query string) ([]models.Client, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Client
	s.read(func(d *data) {
		for _, c := range d.clients {
			if c.BarbershopID != barbershopID {
				continue
			}
			if query != "" &&
				!strings.Contains(strings.ToLower(c.Name), query) &&
				!strings.Contains(c.Phone, query) {
				continue
			}
			out = append(out, c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (s *Store) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return s.write(func(d *data) error {
		for _, other := range d.appointments {
			if other.BarbershopID == ap.BarbershopID && other.Protocol == ap.Protocol {
				return uniqueViolation("idx_appointment_shop_protocol")
			}
		}
		ap.ID = d.id()
		ap.CreatedAt = s.now()
		ap.UpdatedAt = ap.CreatedAt
		d.appointments[ap.ID] = *ap
		return nil
	})
}

func (s *Store) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return s.write(func(d *data) error {
		if _, ok := d.appointments[ap.ID]; !ok {
			return httperr.ErrNotFound("appointment_not_found")
		}
		ap.UpdatedAt = s.now()
		d.appointments[ap.ID] = *ap
		return nil
	})
}

func (s *Store) GetAppointment(ctx context.Context, barbershopID, appointmentID uint) (*models.Appointment, error) {
	var (
		ap models.Appointment
		ok bool
	)
	s.read(func(d *data) { ap, ok = d.appointments[appointmentID] })
	if !ok || ap.BarbershopID != barbershopID {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	return &ap, nil
}

func (s *Store) GetAppointmentByProtocol(ctx context.Context, barbershopID uint, protocol string) (*models.Appointment, error) {
	var (
		ap models.Appointment
		ok bool
	)
	s.read(func(d *data) {
		for _, v := range d.appointments {
			if v.BarbershopID == barbershopID && v.Protocol == protocol {
				ap, ok = v, true
				return
			}
		}
	})
	if !ok {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	return &ap, nil
}

func (s *Store) ListAppointmentsByIDs(ctx context.Context, barbershopID uint, ids []uint) ([]models.Appointment, error) {
	var out []models.Appointment
	s.read(func(d *data) {
		for _, id := range ids {
			if v, ok := d.appointments[id]; ok && v.BarbershopID == barbershopID {
				out = append(out, v)
			}
		}
	})
	return out, nil
}

func sortAgenda(apps []models.Appointment) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Date != apps[j].Date {
			return apps[i].Date < apps[j].Date
		}
		if apps[i].Time != apps[j].Time {
			return apps[i].Time < apps[j].Time
		}
		return apps[i].ID < apps[j].ID
	})
}

func (s *Store) ListAppointmentsForDay(ctx context.Context, barberID uint, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	s.read(func(d *data) {
		for _, ap := range d.appointments {
			if ap.BarberID == barberID && ap.Date == date &&
				ap.Status != string(domain.StatusCancelled) {
				out = append(out, ap)
			}
		}
	})
	sortAgenda(out)
	return out, nil
}

func (s *Store) ListAppointmentsForPeriod(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	from string,
	to string,
) ([]models.Appointment, error) {
	var out []models.Appointment
	s.read(func(d *data) {
		for _, ap := range d.appointments {
			if ap.BarbershopID != barbershopID || ap.Date < from || ap.Date >= to {
				continue
			}
			if barberID != 0 && ap.BarberID != barberID {
				continue
			}
			out = append(out, ap)
		}
	})
	sortAgenda(out)
	return out, nil
}

// --------------------------------------------------
// Queue
// --------------------------------------------------

func (s *Store) ListQueueEntries(ctx context.Context, barbershopID uint) ([]models.QueueEntry, error) {
	var out []models.QueueEntry
	s.read(func(d *data) {
		for _, e := range d.queue {
			if e.BarbershopID == barbershopID && queue.Status(e.Status) != queue.StatusAttended {
				out = append(out, e)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetQueueEntryByAppointment(ctx context.Context, barbershopID, appointmentID uint) (*models.QueueEntry, error) {
	var (
		e  models.QueueEntry
		ok bool
	)
	s.read(func(d *data) {
		for _, v := range d.queue {
			if v.BarbershopID == barbershopID && v.AppointmentID == appointmentID {
				e, ok = v, true
				return
			}
		}
	})
	if !ok {
		return nil, httperr.ErrNotFound("queue_entry_not_found")
	}
	return &e, nil
}

func (s *Store) CreateQueueEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.write(func(d *data) error {
		for _, v := range d.queue {
			if v.AppointmentID == e.AppointmentID {
				return uniqueViolation("idx_queue_entries_appointment_id")
			}
		}
		e.ID = d.id()
		e.CreatedAt = s.now()
		e.UpdatedAt = e.CreatedAt
		d.queue[e.ID] = *e
		return nil
	})
}

func (s *Store) UpdateQueueEntry(ctx context.Context, e *models.QueueEntry) error {
	return s.write(func(d *data) error {
		if _, ok := d.queue[e.ID]; !ok {
			return httperr.ErrNotFound("queue_entry_not_found")
		}
		e.UpdatedAt = s.now()
		d.queue[e.ID] = *e
		return nil
	})
}

func (s *Store) DeleteQueueEntry(ctx context.Context, id uint) error {
	return s.write(func(d *data) error {
		delete(d.queue, id)
		return nil
	})
}

func (s *Store) ClaimQueueEntry(ctx context.Context, id uint, calledAt time.Time) (bool, error) {
	claimed := false
	err := s.write(func(d *data) error {
		e, ok := d.queue[id]
		if !ok || queue.Status(e.Status) != queue.StatusWaiting {
			return nil
		}
		e.Status = string(queue.StatusCalled)
		e.CalledAt = &calledAt
		e.Position = 0
		e.EstimatedWait = 0
		e.UpdatedAt = s.now()
		d.queue[id] = e
		claimed = true
		return nil
	})
	return claimed, err
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return s.write(func(d *data) error {
		l.ID = d.id()
		l.CreatedAt = s.now()
		d.audit = append(d.audit, *l)
		return nil
	})
}

func (s *Store) ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	var matched []models.AuditLog
	s.read(func(d *data) {
		for _, l := range d.audit {
			if l.BarbershopID != f.BarbershopID {
				continue
			}
			if f.Action != "" && l.Action != f.Action {
				continue
			}
			if f.Entity != "" && l.Entity != f.Entity {
				continue
			}
			if f.From != nil && l.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !l.CreatedAt.Before(*f.To) {
				continue
			}
			matched = append(matched, l)
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := f.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}

	return matched[start:end], total, nil
}

// Compile-time check
var (
	_ domain.Repository   = (*Store)(nil)
	_ catalog.Repository  = (*Store)(nil)
	_ settings.Repository = (*Store)(nil)
	_ audit.Store         = (*Store)(nil)
)
