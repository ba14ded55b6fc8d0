package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

// SlotStepMinutes é o passo da grade padrão.
const SlotStepMinutes = 30

// MaxDurationMinutes limita a duração de um serviço a um dia inteiro.
const MaxDurationMinutes = 24 * 60

// ValidateDuration recusa durações fora de (0, MaxDurationMinutes].
func ValidateDuration(durationMin int) error {
	if durationMin <= 0 || durationMin > MaxDurationMinutes {
		return httperr.ErrValidation("invalid_duration")
	}
	return nil
}

type AvailabilityInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint
	DurationMin  int
	Date         time.Time
}

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySchedule reúne tudo que o cálculo precisa para um profissional num dia.
type DaySchedule struct {
	Weekday  time.Weekday
	Settings *models.ShopSettings

	// Override, quando não nil, substitui a grade padrão por completo.
	Override *models.BarberAvailability

	Blocks       []models.BlockedSlot
	Appointments []models.Appointment

	BarberAvailable bool
}

// CalculateSlots devolve todos os candidatos do dia, anotados com
// disponibilidade. Lista vazia = sem grade (domingo); não é erro.
// Função pura: sem I/O, segura para chamadas concorrentes.
func CalculateSlots(day DaySchedule, durationMin int) ([]TimeSlot, error) {
	if err := ValidateDuration(durationMin); err != nil {
		return nil, err
	}

	candidates, closing, err := candidateTimes(day)
	if err != nil {
		return nil, err
	}

	lunch, hasLunch, err := settings.Lunch(day.Settings)
	if err != nil {
		return nil, err
	}

	busy := make([]settings.Window, 0, len(day.Blocks)+len(day.Appointments))
	for _, b := range day.Blocks {
		start, err := settings.ParseHM(b.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := settings.ParseHM(b.EndTime)
		if err != nil {
			return nil, err
		}
		busy = append(busy, settings.Window{Start: start, End: end})
	}
	for _, ap := range day.Appointments {
		if !Status(ap.Status).Active() {
			continue
		}
		w, err := Interval(ap)
		if err != nil {
			return nil, err
		}
		busy = append(busy, w)
	}

	slots := make([]TimeSlot, 0, len(candidates))
	for _, start := range candidates {
		end := start + durationMin

		available := day.BarberAvailable
		if closing > 0 && end > closing {
			available = false
		}
		if available && hasLunch && lunch.Overlaps(start, end) {
			available = false
		}
		for i := 0; available && i < len(busy); i++ {
			if busy[i].Overlaps(start, end) {
				available = false
			}
		}

		slots = append(slots, TimeSlot{
			Time:      settings.FormatHM(start),
			Available: available,
		})
	}

	return slots, nil
}

// candidateTimes devolve os horários candidatos e, para a grade gerada,
// o horário de fechamento (0 quando veio de override).
func candidateTimes(day DaySchedule) ([]int, int, error) {
	if day.Override != nil {
		out := make([]int, 0, len(day.Override.Times))
		for _, t := range day.Override.Times {
			m, err := settings.ParseHM(t)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, m)
		}
		return out, 0, nil
	}

	hours, open, err := settings.BusinessHours(day.Settings, day.Weekday)
	if err != nil || !open {
		return []int{}, 0, err
	}

	out := make([]int, 0, (hours.End-hours.Start)/SlotStepMinutes)
	for cur := hours.Start; cur < hours.End; cur += SlotStepMinutes {
		out = append(out, cur)
	}
	return out, hours.End, nil
}

// Interval devolve [início, início+duração) do agendamento em minutos do dia.
// Durações gravadas acima do limite bloqueiam o resto do dia.
func Interval(ap models.Appointment) (settings.Window, error) {
	start, err := settings.ParseHM(ap.Time)
	if err != nil {
		return settings.Window{}, err
	}
	duration := ap.DurationMin
	if duration > MaxDurationMinutes {
		duration = MaxDurationMinutes
	}
	return settings.Window{Start: start, End: start + duration}, nil
}

// Overlapping devolve os agendamentos ativos que colidem com [start, start+duration).
func Overlapping(existing []models.Appointment, start, durationMin int) ([]models.Appointment, error) {
	if err := ValidateDuration(durationMin); err != nil {
		return nil, err
	}

	var out []models.Appointment
	for _, ap := range existing {
		if !Status(ap.Status).Active() {
			continue
		}
		w, err := Interval(ap)
		if err != nil {
			return nil, err
		}
		if w.Overlaps(start, start+durationMin) {
			out = append(out, ap)
		}
	}
	return out, nil
}
