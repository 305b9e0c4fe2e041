package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/providers"
)

// Slot es un intervalo candidato de largo fijo dentro del horario del provider.
type Slot struct {
	Start    providers.TimeOfDay
	End      providers.TimeOfDay
	Occupied bool
}

// Availability arma la grilla de slots de un provider para una fecha.
//   - día cerrado => slice vacío, sin error
//   - el último slot parcial (si el horario no es múltiplo exacto) se descarta
//   - ocupado = solapa alguna cita no-terminal; [start, end) semiabierto,
//     así dos citas espalda-con-espalda no chocan
//   - fechas pasadas igual computan: rechazar reservas viejas es política del
//     booking, no de la grilla
func (s *Service) Availability(ctx context.Context, providerID identity.ID, date time.Time) ([]Slot, error) {
	if providerID.IsZero() {
		return nil, ErrInvalidInput
	}
	date = NormalizeDate(date)

	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hours, open := p.WorkingHours.For(date.Weekday())
	if !open {
		return []Slot{}, nil
	}

	booked, err := s.repo.ListByProviderDate(ctx, providerID, date, ActiveStatuses())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	granularity := providers.TimeOfDay(s.slotMinutes)

	slots := make([]Slot, 0)
	for start := hours.Open; start+granularity <= hours.Close; start += granularity {
		end := start + granularity

		occupied := false
		for _, a := range booked {
			if a.Overlaps(start, end) {
				occupied = true
				break
			}
		}

		slots = append(slots, Slot{Start: start, End: end, Occupied: occupied})
	}

	if s.metrics != nil {
		s.metrics.AvailabilityComputed(len(slots))
	}

	return slots, nil
}
