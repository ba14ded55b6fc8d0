package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

const dateLayout = "2006-01-02"

// loadDay lê tudo que o cálculo de disponibilidade precisa para o dia.
// Dentro de transação, repo é o repositório da transação.
func loadDay(
	ctx context.Context,
	repo domain.Repository,
	st *models.ShopSettings,
	barber *models.Barber,
	date time.Time,
) (domain.DaySchedule, error) {

	day := date.Format(dateLayout)

	override, err := repo.GetAvailabilityOverride(ctx, barber.ID, day)
	if err != nil {
		return domain.DaySchedule{}, err
	}

	blocks, err := repo.ListBlockedSlots(ctx, barber.ID, day)
	if err != nil {
		return domain.DaySchedule{}, err
	}

	apps, err := repo.ListAppointmentsForDay(ctx, barber.ID, day)
	if err != nil {
		return domain.DaySchedule{}, err
	}

	return domain.DaySchedule{
		Weekday:         date.Weekday(),
		Settings:        st,
		Override:        override,
		Blocks:          blocks,
		Appointments:    apps,
		BarberAvailable: barber.Available,
	}, nil
}

// checkSlot falha com SlotUnavailable se hm não é um horário livre do dia.
func checkSlot(day domain.DaySchedule, hm string, durationMin int) error {
	slots, err := domain.CalculateSlots(day, durationMin)
	if err != nil {
		return err
	}

	for _, s := range slots {
		if s.Time == hm {
			if !s.Available {
				return httperr.ErrSlotUnavailable("slot_unavailable")
			}
			return nil
		}
	}
	return httperr.ErrSlotUnavailable("slot_unavailable")
}

// parseDay valida "YYYY-MM-DD" no fuso da barbearia.
func parseDay(shop *models.Barbershop, date string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, timezone.Location(shop.Timezone))
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date")
	}
	return d, nil
}

// normalizeHM devolve o horário no formato canônico "HH:MM".
func normalizeHM(hm string) (string, int, error) {
	m, err := settings.ParseHM(hm)
	if err != nil {
		return "", 0, httperr.ErrValidation("invalid_time")
	}
	return settings.FormatHM(m), m, nil
}
