package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID          uint   `json:"id"`
	Protocol    string `json:"protocol"`
	BarberID    uint   `json:"barber_id"`
	ServiceID   uint   `json:"service_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	DurationMin int    `json:"duration_min"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	Notes       string `json:"notes,omitempty"`
}

func NewAppointmentList(ap models.Appointment) AppointmentListDTO {
	end := ""
	if start, err := settings.ParseHM(ap.Time); err == nil {
		end = settings.FormatHM(start + ap.DurationMin)
	}

	return AppointmentListDTO{
		ID:          ap.ID,
		Protocol:    ap.Protocol,
		BarberID:    ap.BarberID,
		ServiceID:   ap.ServiceID,
		Date:        ap.Date,
		Time:        ap.Time,
		EndTime:     end,
		DurationMin: ap.DurationMin,
		Status:      ap.Status,
		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		Notes:       ap.Notes,
	}
}

func NewAppointmentListSlice(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, NewAppointmentList(ap))
	}
	return out
}

type QueueItemDTO struct {
	ID            uint       `json:"id"`
	AppointmentID uint       `json:"appointment_id"`
	Protocol      string     `json:"protocol"`
	ClientName    string     `json:"client_name"`
	BarberID      uint       `json:"barber_id"`
	Status        string     `json:"status"`
	Position      int        `json:"position"`
	EstimatedWait int        `json:"estimated_wait"`
	EnqueuedAt    time.Time  `json:"enqueued_at"`
	CalledAt      *time.Time `json:"called_at"`
	OnWayAt       *time.Time `json:"onway_at"`
}

func NewQueueItem(e models.QueueEntry) QueueItemDTO {
	return QueueItemDTO{
		ID:            e.ID,
		AppointmentID: e.AppointmentID,
		Status:        e.Status,
		Position:      e.Position,
		EstimatedWait: e.EstimatedWait,
		EnqueuedAt:    e.EnqueuedAt,
		CalledAt:      e.CalledAt,
		OnWayAt:       e.OnWayAt,
	}
}
