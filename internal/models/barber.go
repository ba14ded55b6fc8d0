package models

import "time"

// Barber é o profissional que atende. Available=false bloqueia novos agendamentos.
type Barber struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	Name        string   `gorm:"size:100;not null" json:"name"`
	Phone       string   `gorm:"size:20" json:"phone"`
	Specialties []string `gorm:"serializer:json" json:"specialties"`
	Available   bool     `gorm:"not null" json:"available"`
	Rating      float64  `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
