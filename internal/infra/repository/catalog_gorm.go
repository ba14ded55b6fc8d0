package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	barbershopID uint,
	onlyVisible bool,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", barbershopID)
	if onlyVisible {
		q = q.Where("visible = ?", true)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&service).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &service, nil
}

func (r *CatalogGormRepository) CreateService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) UpdateService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// --------------------------------------------------
// Professionals
// --------------------------------------------------

func (r *CatalogGormRepository) ListBarbers(
	ctx context.Context,
	barbershopID uint,
	onlyAvailable bool,
) ([]models.Barber, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", barbershopID)
	if onlyAvailable {
		q = q.Where("available = ?", true)
	}

	var barbers []models.Barber
	if err := q.Order("id ASC").Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *CatalogGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&barber).Error; err != nil {
		return nil, notFound(err, "barber_not_found")
	}
	return &barber, nil
}

func (r *CatalogGormRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CatalogGormRepository) UpdateBarber(ctx context.Context, b *models.Barber) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

func (r *CatalogGormRepository) ListBlockedSlotsForShop(
	ctx context.Context,
	barbershopID uint,
	date string,
) ([]models.BlockedSlot, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", barbershopID)
	if date != "" {
		q = q.Where("date = ?", date)
	}

	var blocks []models.BlockedSlot
	if err := q.
		Order("date ASC").
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *CatalogGormRepository) CreateBlockedSlot(ctx context.Context, b *models.BlockedSlot) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CatalogGormRepository) DeleteBlockedSlot(
	ctx context.Context,
	barbershopID uint,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		Delete(&models.BlockedSlot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("blocked_slot_not_found")
	}
	return nil
}

// --------------------------------------------------
// Per-day overrides
// --------------------------------------------------

func (r *CatalogGormRepository) UpsertAvailabilityOverride(
	ctx context.Context,
	o *models.BarberAvailability,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barber_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"times", "updated_at"}),
		}).
		Create(o).Error
}

func (r *CatalogGormRepository) DeleteAvailabilityOverride(
	ctx context.Context,
	barberID uint,
	date string,
) error {

	res := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Delete(&models.BarberAvailability{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("override_not_found")
	}
	return nil
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (r *CatalogGormRepository) ListClients(
	ctx context.Context,
	barbershopID uint,
	query string,
) ([]models.Client, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", barbershopID)

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

var _ catalog.Repository = (*CatalogGormRepository)(nil)
