package models

import "time"

// BlockedSlot é uma indisponibilidade pontual (pausa, folga, férias).
type BlockedSlot struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	BarberID     uint `gorm:"index:idx_blocked_barber_date" json:"barber_id"`

	Date      string `gorm:"size:10;index:idx_blocked_barber_date" json:"date"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Reason    string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
