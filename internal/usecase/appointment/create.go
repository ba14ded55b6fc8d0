package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
	ucqueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/validators"
)

const (
	protocolConstraint  = "idx_appointment_shop_protocol"
	maxProtocolAttempts = 5
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint

	ClientName  string
	ClientPhone string

	Date  string // YYYY-MM-DD
	Time  string // HH:MM
	Notes string

	ActorID *uint
}

type CreateAppointmentResult struct {
	Appointment *models.Appointment `json:"appointment"`
	QueueEntry  *models.QueueEntry  `json:"queue_entry,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock       timezone.Clock
	NewProtocol func(now time.Time) string
}

func NewCreateAppointment(
	repo domain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:        repo,
		settings:    settings,
		lanes:       lanes,
		notifier:    notifier,
		audit:       audit,
		NewProtocol: domain.NewProtocol,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentResult, error) {

	// --------------------------------------------------
	// 1️⃣ Validação de entrada (antes de qualquer escrita)
	// --------------------------------------------------
	name, ok := validators.ClientName(in.ClientName)
	if !ok {
		return nil, httperr.ErrValidation("invalid_client_name")
	}
	phone, ok := validators.Phone(in.ClientPhone)
	if !ok {
		return nil, httperr.ErrValidation("invalid_client_phone")
	}

	hm, startMin, err := normalizeHM(in.Time)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Barbearia / configuração / catálogo
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	day, err := parseDay(shop, in.Date)
	if err != nil {
		return nil, err
	}

	st, err := uc.settings.Get(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDuration(service.DurationMin); err != nil {
		return nil, err
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarbershopID, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !barber.Available {
		return nil, httperr.ErrSlotUnavailable("professional_unavailable")
	}

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima
	// --------------------------------------------------
	now := uc.Clock.NowIn(shop.Timezone)
	start := day.Add(time.Duration(startMin) * time.Minute)
	minAllowed := now.Add(time.Duration(st.MinAdvanceMinutes) * time.Minute)
	if start.Before(minAllowed) {
		return nil, httperr.ErrValidation("too_soon")
	}

	// --------------------------------------------------
	// 4️⃣ Pré-checagem sem lock (falha rápido)
	// --------------------------------------------------
	schedule, err := loadDay(ctx, uc.repo, st, barber, day)
	if err != nil {
		return nil, err
	}
	if err := checkSlot(schedule, hm, service.DurationMin); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Commit serializado com revalidação
	// --------------------------------------------------
	var result CreateAppointmentResult

	err = uc.lanes.Do(ctx, in.BarbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			result = CreateAppointmentResult{}

			if err := tx.LockSchedule(ctx, barber.ID, in.Date); err != nil {
				return err
			}

			schedule, err := loadDay(ctx, tx, st, barber, day)
			if err != nil {
				return err
			}
			if err := checkSlot(schedule, hm, service.DurationMin); err != nil {
				return err
			}

			client, err := tx.GetOrCreateClient(ctx, in.BarbershopID, name, phone)
			if err != nil {
				return err
			}

			ap := &models.Appointment{
				BarbershopID: in.BarbershopID,
				BarberID:     barber.ID,
				ServiceID:    service.ID,
				ClientID:     client.ID,
				ClientName:   name,
				ClientPhone:  phone,
				Date:         in.Date,
				Time:         hm,
				DurationMin:  service.DurationMin,
				Status:       string(domain.InitialStatus()),
				Notes:        in.Notes,
			}

			if err := uc.insertWithProtocol(ctx, tx, ap, now); err != nil {
				return err
			}
			result.Appointment = ap

			// --------------------------------------------------
			// 6️⃣ Fila (fila cheia não derruba o agendamento)
			// --------------------------------------------------
			if !st.QueueEnabled {
				return nil
			}

			return tx.Transaction(ctx, func(q domain.Repository) error {
				entry, err := ucqueue.EnqueueTx(ctx, q, st, ap, now)
				if httperr.IsBusiness(err, "queue_full") {
					return nil
				}
				if err != nil {
					return err
				}
				result.QueueEntry = entry
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Notificação + auditoria
	// --------------------------------------------------
	ap := result.Appointment

	ev := notify.NewEvent(notify.AppointmentCreated, in.BarbershopID, ap.ID, now)
	ev.Protocol = ap.Protocol
	ev.ClientName = ap.ClientName
	ev.ClientPhone = ap.ClientPhone
	ev.Date = ap.Date
	ev.Time = ap.Time
	if result.QueueEntry != nil {
		ev.Position = result.QueueEntry.Position
		ev.EstimatedWait = result.QueueEntry.EstimatedWait
	}
	uc.notifier.Publish(ev)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		ActorID:      in.ActorID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"protocol": ap.Protocol, "date": ap.Date, "time": ap.Time},
	})

	return &result, nil
}

// insertWithProtocol gera o protocolo e repete com um novo em caso de
// colisão. Cada tentativa roda num savepoint para não abortar a transação.
func (uc *CreateAppointment) insertWithProtocol(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	now time.Time,
) error {

	var err error
	for attempt := 0; attempt < maxProtocolAttempts; attempt++ {
		ap.ID = 0
		ap.Protocol = uc.NewProtocol(now)

		err = tx.Transaction(ctx, func(sp domain.Repository) error {
			return sp.CreateAppointment(ctx, ap)
		})
		if err == nil {
			return nil
		}
		if !httperr.IsUniqueViolation(err, protocolConstraint) {
			return err
		}
	}
	return err
}
