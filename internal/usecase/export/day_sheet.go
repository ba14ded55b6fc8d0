package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

// DaySheet é o snapshot do dia entregue ao CRM / gerador de PDF.
type DaySheet struct {
	Barbershop   string                   `json:"barbershop"`
	Date         string                   `json:"date"`
	GeneratedAt  time.Time                `json:"generated_at"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
	Queue        []dto.QueueItemDTO       `json:"queue"`
}

type ExportResult struct {
	Key          string `json:"key"`
	Location     string `json:"location"`
	Appointments int    `json:"appointments"`
	QueueEntries int    `json:"queue_entries"`
}

type ExportDaySheet struct {
	repo  apdomain.Repository
	store storage.ObjectStore
	audit *audit.Dispatcher

	Clock timezone.Clock
}

func NewExportDaySheet(
	repo apdomain.Repository,
	store storage.ObjectStore,
	audit *audit.Dispatcher,
) *ExportDaySheet {
	return &ExportDaySheet{
		repo:  repo,
		store: store,
		audit: audit,
	}
}

func (uc *ExportDaySheet) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	date string,
) (*ExportResult, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(shop.Timezone, date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	apps, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barbershopID,
		0,
		day.Format("2006-01-02"),
		day.AddDate(0, 0, 1).Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := uc.repo.ListQueueEntries(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	queue := make([]dto.QueueItemDTO, 0, len(entries))
	for _, e := range entries {
		queue = append(queue, dto.NewQueueItem(e))
	}

	now := uc.Clock.NowIn(shop.Timezone)
	sheet := DaySheet{
		Barbershop:   shop.Slug,
		Date:         date,
		GeneratedAt:  now,
		Appointments: dto.NewAppointmentListSlice(apps),
		Queue:        queue,
	}

	body, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal day sheet: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s/agenda-%s.json", shop.Slug, date, now.Format("150405"))

	location, err := uc.store.Put(ctx, key, body, "application/json")
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "agenda_exported",
		Entity:       "agenda",
		Metadata:     map[string]any{"date": date, "key": key},
	})

	return &ExportResult{
		Key:          key,
		Location:     location,
		Appointments: len(apps),
		QueueEntries: len(entries),
	}, nil
}
