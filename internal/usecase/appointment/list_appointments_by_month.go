package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.ErrValidation("invalid_year")
	}
	if month < 1 || month > 12 {
		return nil, httperr.ErrValidation("invalid_month")
	}

	if _, err := uc.repo.GetBarbershopByID(ctx, barbershopID); err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barbershopID,
		barberID,
		start.Format(dateLayout),
		end.Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentListSlice(appointments), nil
}
