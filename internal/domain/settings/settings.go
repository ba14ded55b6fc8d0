package settings

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

const (
	DefaultWeekdayHours      = "09:00-20:00"
	DefaultSaturdayHours     = "09:00-18:00"
	DefaultLunchStart        = "12:00"
	DefaultLunchEnd          = "13:00"
	DefaultMaxQueueSize      = 20
	DefaultAvgServiceMinutes = 25
)

type Repository interface {
	// GetSettings returns httperr NotFound when the shop has no row yet.
	GetSettings(ctx context.Context, barbershopID uint) (*models.ShopSettings, error)
	SaveSettings(ctx context.Context, s *models.ShopSettings) error
}

// Source entrega a configuração efetiva da barbearia (com defaults).
type Source interface {
	Get(ctx context.Context, barbershopID uint) (*models.ShopSettings, error)
}

// Cache guarda a configuração por barbearia; invalidada explicitamente no update.
type Cache interface {
	GetSettings(ctx context.Context, barbershopID uint) (*models.ShopSettings, bool)
	SetSettings(ctx context.Context, s *models.ShopSettings)
	InvalidateSettings(ctx context.Context, barbershopID uint)
}

func Defaults(barbershopID uint) *models.ShopSettings {
	return &models.ShopSettings{
		BarbershopID:      barbershopID,
		WeekdayHours:      DefaultWeekdayHours,
		SaturdayHours:     DefaultSaturdayHours,
		LunchStart:        DefaultLunchStart,
		LunchEnd:          DefaultLunchEnd,
		QueueEnabled:      false,
		MaxQueueSize:      DefaultMaxQueueSize,
		AvgServiceMinutes: DefaultAvgServiceMinutes,
	}
}

// BusinessHours devolve o expediente do dia; domingo é sempre fechado.
func BusinessHours(s *models.ShopSettings, weekday time.Weekday) (Window, bool, error) {
	switch weekday {
	case time.Sunday:
		return Window{}, false, nil
	case time.Saturday:
		return ParseWindow(s.SaturdayHours)
	default:
		return ParseWindow(s.WeekdayHours)
	}
}

func Lunch(s *models.ShopSettings) (Window, bool, error) {
	if s.LunchStart == "" || s.LunchEnd == "" {
		return Window{}, false, nil
	}
	return ParseWindow(s.LunchStart + "-" + s.LunchEnd)
}

func AvgServiceMinutes(s *models.ShopSettings) int {
	if s == nil || s.AvgServiceMinutes <= 0 {
		return DefaultAvgServiceMinutes
	}
	return s.AvgServiceMinutes
}

// Patch é a atualização parcial vinda do painel. Campos nil ficam como estão.
type Patch struct {
	WeekdayHours      *string `json:"weekday_hours"`
	SaturdayHours     *string `json:"saturday_hours"`
	LunchStart        *string `json:"lunch_start"`
	LunchEnd          *string `json:"lunch_end"`
	QueueEnabled      *bool   `json:"queue_enabled"`
	MaxQueueSize      *int    `json:"max_queue_size"`
	AvgServiceMinutes *int    `json:"avg_service_minutes"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

// Apply valida e aplica o patch. Em caso de erro, s não é alterado.
func Apply(s *models.ShopSettings, p Patch) error {
	next := *s

	if p.WeekdayHours != nil {
		next.WeekdayHours = *p.WeekdayHours
	}
	if p.SaturdayHours != nil {
		next.SaturdayHours = *p.SaturdayHours
	}
	if p.LunchStart != nil {
		next.LunchStart = *p.LunchStart
	}
	if p.LunchEnd != nil {
		next.LunchEnd = *p.LunchEnd
	}
	if p.QueueEnabled != nil {
		next.QueueEnabled = *p.QueueEnabled
	}
	if p.MaxQueueSize != nil {
		next.MaxQueueSize = *p.MaxQueueSize
	}
	if p.AvgServiceMinutes != nil {
		next.AvgServiceMinutes = *p.AvgServiceMinutes
	}
	if p.MinAdvanceMinutes != nil {
		next.MinAdvanceMinutes = *p.MinAdvanceMinutes
	}

	if _, _, err := ParseWindow(next.WeekdayHours); err != nil {
		return httperr.ErrValidation("invalid_hours")
	}
	if _, _, err := ParseWindow(next.SaturdayHours); err != nil {
		return httperr.ErrValidation("invalid_hours")
	}
	if (next.LunchStart == "") != (next.LunchEnd == "") {
		return httperr.ErrValidation("invalid_lunch")
	}
	if _, _, err := Lunch(&next); err != nil {
		return httperr.ErrValidation("invalid_lunch")
	}
	if next.MaxQueueSize < 1 {
		return httperr.ErrValidation("invalid_queue_size")
	}
	if next.AvgServiceMinutes < 1 || next.MinAdvanceMinutes < 0 {
		return httperr.ErrValidation("invalid_settings")
	}

	*s = next
	return nil
}
