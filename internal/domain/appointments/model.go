package appointments

import (
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/providers"
)

// Status del ciclo de vida de una cita.
// @Enum scheduled, confirmed, in_progress, completed, cancelled, no_show
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// Terminal: desde acá no hay más transiciones.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// ActiveStatuses son los estados que ocupan agenda. Una cita cancelada o
// no-show libera su slot.
func ActiveStatuses() []Status {
	return []Status{StatusScheduled, StatusConfirmed, StatusInProgress}
}

// Appointment es el registro durable de una reserva.
// CustomerID es un snapshot del dueño al momento de reservar; para control de
// acceso se re-deriva siempre desde el dueño vigente de la mascota.
type Appointment struct {
	ID identity.ID

	PetID      identity.ID
	CustomerID identity.ID
	ProviderID identity.ID

	Date  time.Time // fecha calendario, medianoche UTC
	Start providers.TimeOfDay
	End   providers.TimeOfDay

	Status Status
	Reason string

	CreatedAt       time.Time
	StatusChangedAt time.Time
}

// Overlaps usa semántica de intervalo semiabierto [start, end):
// dos citas espalda-con-espalda (una termina donde empieza la otra) NO chocan.
func (a Appointment) Overlaps(start, end providers.TimeOfDay) bool {
	return a.Start < end && start < a.End
}

// NormalizeDate trunca a fecha calendario en UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
