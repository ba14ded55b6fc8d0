package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHM converte "HH:MM" em minutos desde a meia-noite.
func ParseHM(hm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hm)
	}
	return h*60 + m, nil
}

func FormatHM(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Window is a half-open [Start, End) range in minutes of the day.
type Window struct {
	Start int
	End   int
}

func (w Window) Overlaps(start, end int) bool {
	return start < w.End && end > w.Start
}

// ParseWindow lê "HH:MM-HH:MM". String vazia significa fechado (ok=false).
func ParseWindow(s string) (w Window, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Window{}, false, nil
	}
	from, to, found := strings.Cut(s, "-")
	if !found {
		return Window{}, false, fmt.Errorf("invalid window %q", s)
	}
	if w.Start, err = ParseHM(from); err != nil {
		return Window{}, false, err
	}
	if w.End, err = ParseHM(to); err != nil {
		return Window{}, false, err
	}
	if w.End <= w.Start {
		return Window{}, false, fmt.Errorf("window %q ends before it starts", s)
	}
	return w, true, nil
}
