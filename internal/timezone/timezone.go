package timezone

import (
	"sync/atomic"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var fallback atomic.Value

// SetDefault troca o fuso usado quando a barbearia não tem um válido.
func SetDefault(tz string) bool {
	if !IsValid(tz) {
		return false
	}
	fallback.Store(tz)
	return true
}

func defaultTZ() string {
	if tz, ok := fallback.Load().(string); ok {
		return tz
	}
	return DefaultTimezone
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(defaultTZ())
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock é injetado nos use cases; nil usa o relógio do sistema.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func (c Clock) NowIn(tz string) time.Time {
	return c.Now().In(Location(tz))
}

// ParseDate interpreta "YYYY-MM-DD" à meia-noite no fuso da barbearia.
func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}

// ParseDateTime interpreta "YYYY-MM-DD" + "HH:MM" no fuso da barbearia.
func ParseDateTime(tz, date, hm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hm, Location(tz))
}
