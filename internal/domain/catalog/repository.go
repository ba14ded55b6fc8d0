package catalog

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

// Repository é o feed de catálogo e os dados administrativos que alimentam
// o cálculo de disponibilidade.
type Repository interface {
	// -------- Services --------
	ListServices(ctx context.Context, barbershopID uint, onlyVisible bool) ([]models.Service, error)
	GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error

	// -------- Professionals --------
	ListBarbers(ctx context.Context, barbershopID uint, onlyAvailable bool) ([]models.Barber, error)
	GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.Barber, error)
	CreateBarber(ctx context.Context, b *models.Barber) error
	UpdateBarber(ctx context.Context, b *models.Barber) error

	// -------- Blocked slots --------
	ListBlockedSlotsForShop(ctx context.Context, barbershopID uint, date string) ([]models.BlockedSlot, error)
	CreateBlockedSlot(ctx context.Context, b *models.BlockedSlot) error
	DeleteBlockedSlot(ctx context.Context, barbershopID, id uint) error

	// -------- Per-day overrides --------
	UpsertAvailabilityOverride(ctx context.Context, o *models.BarberAvailability) error
	DeleteAvailabilityOverride(ctx context.Context, barberID uint, date string) error

	// -------- Clients --------
	ListClients(ctx context.Context, barbershopID uint, query string) ([]models.Client, error)
}
