package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lista a agenda do dia. barberID 0 = todos os profissionais.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	day, err := parseDay(shop, date)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barbershopID,
		barberID,
		day.Format(dateLayout),
		day.AddDate(0, 0, 1).Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentListSlice(appointments), nil
}
