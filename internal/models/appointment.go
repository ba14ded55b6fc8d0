package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint   `gorm:"uniqueIndex:idx_appointment_shop_protocol;index" json:"barbershop_id"`
	Protocol     string `gorm:"size:32;uniqueIndex:idx_appointment_shop_protocol;not null" json:"protocol"`

	BarberID  uint `gorm:"index:idx_appointment_barber_date" json:"barber_id"`
	ServiceID uint `json:"service_id"`
	ClientID  uint `json:"client_id"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`

	// Date "YYYY-MM-DD" e Time "HH:MM" no fuso da barbearia.
	Date        string `gorm:"size:10;index:idx_appointment_barber_date" json:"date"`
	Time        string `gorm:"size:5" json:"time"`
	DurationMin int    `json:"duration_min"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CalledAt    *time.Time `json:"called_at"`
	OnWayAt     *time.Time `json:"onway_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
