package models

import "time"

type ShopSettings struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"uniqueIndex;not null" json:"barbershop_id"`

	// "HH:MM-HH:MM"; vazio = fechado. Domingo é sempre fechado.
	WeekdayHours  string `gorm:"size:11" json:"weekday_hours"`
	SaturdayHours string `gorm:"size:11" json:"saturday_hours"`

	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`

	QueueEnabled      bool `gorm:"default:false" json:"queue_enabled"`
	MaxQueueSize      int  `gorm:"default:20" json:"max_queue_size"`
	AvgServiceMinutes int  `gorm:"default:25" json:"avg_service_minutes"`
	MinAdvanceMinutes int  `gorm:"default:0" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
