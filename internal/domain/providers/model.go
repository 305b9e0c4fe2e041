package providers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
)

var (
	ErrInvalidTime  = errors.New("invalid time of day")
	ErrInvalidHours = errors.New("invalid working hours")
)

// TimeOfDay son minutos desde medianoche (0..1440).
// Evita acarrear time.Time con fecha/zona para algo que es solo "hora del día".
type TimeOfDay int

const MinutesPerDay = 24 * 60

// ParseTimeOfDay parsea "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidTime
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

// At combina una fecha calendario con esta hora, en UTC.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, time.UTC)
}

// DayHours es el intervalo abierto de un día hábil.
type DayHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// WorkingHours mapea weekday -> horario. Weekday ausente = cerrado ese día.
type WorkingHours map[time.Weekday]DayHours

func (wh WorkingHours) For(d time.Weekday) (DayHours, bool) {
	h, ok := wh[d]
	return h, ok
}

// Validate: intervalos no vacíos y dentro del día.
func (wh WorkingHours) Validate() error {
	for _, h := range wh {
		if h.Open < 0 || h.Close > MinutesPerDay {
			return ErrInvalidHours
		}
		if h.Open >= h.Close {
			return ErrInvalidHours
		}
	}
	return nil
}

// Kind distingue veterinario individual de clínica.
// @Enum vet, clinic
type Kind string

const (
	KindVet    Kind = "vet"
	KindClinic Kind = "clinic"
)

// Provider es una entidad reservable: horario semanal + tarifa de consulta.
type Provider struct {
	ID   identity.ID
	Name string
	Kind Kind

	WorkingHours    WorkingHours
	ConsultationFee float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
