package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type Repository interface {
	// -------- Transaction --------
	// Transaction runs fn in one atomic unit; fn receives a repository bound
	// to that unit.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// LockSchedule serializes writers of one professional's day.
	LockSchedule(ctx context.Context, barberID uint, date string) error

	// LockQueue serializes writers of one shop's queue.
	LockQueue(ctx context.Context, barbershopID uint) error

	// -------- Barbershop --------
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
	GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error)

	// -------- Catalog --------
	GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error)
	GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.Barber, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
	) (*models.Client, error)

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	GetAppointment(ctx context.Context, barbershopID, appointmentID uint) (*models.Appointment, error)
	GetAppointmentByProtocol(ctx context.Context, barbershopID uint, protocol string) (*models.Appointment, error)

	// ListAppointmentsByIDs loads a batch of a shop's appointments; missing
	// ids are skipped.
	ListAppointmentsByIDs(ctx context.Context, barbershopID uint, ids []uint) ([]models.Appointment, error)

	// ListAppointmentsForDay returns non-cancelled appointments of a
	// professional on a date.
	ListAppointmentsForDay(ctx context.Context, barberID uint, date string) ([]models.Appointment, error)

	// ListAppointmentsForPeriod lists a shop's appointments with
	// from <= date < to; barberID 0 means every professional.
	ListAppointmentsForPeriod(
		ctx context.Context,
		barbershopID uint,
		barberID uint,
		from string,
		to string,
	) ([]models.Appointment, error)

	// -------- Availability inputs --------
	ListBlockedSlots(ctx context.Context, barberID uint, date string) ([]models.BlockedSlot, error)

	// GetAvailabilityOverride returns nil, nil when the day has no override.
	GetAvailabilityOverride(ctx context.Context, barberID uint, date string) (*models.BarberAvailability, error)

	// -------- Queue --------
	queue.Repository
}
