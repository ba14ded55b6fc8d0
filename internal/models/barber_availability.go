package models

import "time"

// BarberAvailability substitui por completo a grade padrão do dia.
type BarberAvailability struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	BarberID     uint `gorm:"uniqueIndex:idx_override_barber_date" json:"barber_id"`

	Date  string   `gorm:"size:10;uniqueIndex:idx_override_barber_date" json:"date"`
	Times []string `gorm:"serializer:json" json:"times"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
