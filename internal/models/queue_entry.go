package models

import "time"

type QueueEntry struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	AppointmentID uint `gorm:"uniqueIndex;not null" json:"appointment_id"`

	// Sequence fixa a ordem de chegada; Position só vale para status "waiting".
	Sequence      uint64 `json:"sequence"`
	Position      int    `json:"position"`
	EstimatedWait int    `json:"estimated_wait"`
	Status        string `gorm:"size:20;default:'waiting'" json:"status"`

	EnqueuedAt time.Time  `json:"enqueued_at"`
	CalledAt   *time.Time `json:"called_at"`
	OnWayAt    *time.Time `json:"onway_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
