package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/identity"
)

type appointmentsRepo struct {
	mu   sync.Mutex
	byID map[identity.ID]appointments.Appointment
}

func NewAppointmentsRepo() appointments.Repository {
	return &appointmentsRepo{
		byID: make(map[identity.ID]appointments.Appointment),
	}
}

// InsertIfFree es el punto de serialización del booking en memoria: el chequeo
// de solape y el insert ocurren bajo el mismo lock, así dos requests
// concurrentes por el mismo slot nunca ganan los dos.
func (r *appointmentsRepo) InsertIfFree(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID.IsZero() {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}

	for _, existing := range r.byID {
		if existing.ProviderID != a.ProviderID {
			continue
		}
		if !existing.Date.Equal(a.Date) {
			continue
		}
		if existing.Status.Terminal() {
			continue
		}
		if existing.Overlaps(a.Start, a.End) {
			return appointments.ErrSlotAlreadyBooked
		}
	}

	r.byID[a.ID] = a
	return nil
}

func (r *appointmentsRepo) GetByID(ctx context.Context, id identity.ID) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrAppointmentNotFound
	}
	return a, nil
}

func (r *appointmentsRepo) ListByProviderDate(ctx context.Context, providerID identity.ID, date time.Time, statuses []appointments.Status) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[appointments.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.ProviderID != providerID || !a.Date.Equal(date) {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[a.Status]; !ok {
				continue
			}
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})

	return out, nil
}

func (r *appointmentsRepo) ListByCustomer(ctx context.Context, customerID identity.ID) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})

	return out, nil
}

func (r *appointmentsRepo) UpdateStatus(ctx context.Context, id identity.ID, status appointments.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.ErrAppointmentNotFound
	}

	a.Status = status
	a.StatusChangedAt = at
	r.byID[id] = a
	return nil
}
