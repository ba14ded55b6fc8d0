package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

func (r *SettingsGormRepository) GetSettings(
	ctx context.Context,
	barbershopID uint,
) (*models.ShopSettings, error) {

	var s models.ShopSettings
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		First(&s).Error; err != nil {
		return nil, notFound(err, "settings_not_found")
	}
	return &s, nil
}

// SaveSettings faz insert na primeira gravação e update nas seguintes.
// Campos booleanos/zero são persistidos explicitamente pelo Save.
func (r *SettingsGormRepository) SaveSettings(
	ctx context.Context,
	s *models.ShopSettings,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ settings.Repository = (*SettingsGormRepository)(nil)
