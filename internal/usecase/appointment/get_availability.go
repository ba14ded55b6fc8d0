package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
)

// GetAvailability é leitura pura: roda fora da lane e pode ser chamada em
// paralelo à vontade. O resultado pode ficar velho; a criação revalida.
type GetAvailability struct {
	repo     domain.Repository
	settings settings.Source
}

func NewGetAvailability(repo domain.Repository, settings settings.Source) *GetAvailability {
	return &GetAvailability{repo: repo, settings: settings}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	duration := in.DurationMin
	if in.ServiceID != 0 {
		service, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = service.DurationMin
	}
	if err := domain.ValidateDuration(duration); err != nil {
		return nil, err
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarbershopID, in.BarberID)
	if err != nil {
		return nil, err
	}

	st, err := uc.settings.Get(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	day, err := loadDay(ctx, uc.repo, st, barber, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.CalculateSlots(day, duration)
}
