package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/pets"
	"vet-booking/internal/domain/providers"
	"vet-booking/internal/platform/logger"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidInterval     = errors.New("invalid interval")
	ErrProviderNotFound    = errors.New("provider not found")
	ErrPetNotFound         = errors.New("pet not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrOwnershipMismatch   = errors.New("pet does not belong to customer")
	ErrProviderClosed      = errors.New("provider closed that day")
	ErrSlotInPast          = errors.New("slot is in the past")
	ErrSlotAlreadyBooked   = errors.New("slot already booked")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Metrics es opcional (nil = no-op). La implementación real vive en
// internal/platform/metrics.
type Metrics interface {
	BookingCommitted()
	BookingConflict(reason string)
	AvailabilityComputed(slots int)
	TransitionApplied(target Status)
}

type Service struct {
	repo      Repository
	pets      *pets.Service
	providers *providers.Service

	log     logger.Logger
	metrics Metrics

	slotMinutes int
	grace       time.Duration

	now func() time.Time
}

type Options struct {
	Logger  logger.Logger
	Metrics Metrics

	// SlotMinutes es la granularidad de la grilla (default 30).
	SlotMinutes int

	// GraceWindow permite reservar "apenas pasado" el inicio del slot.
	// Default 0: cualquier inicio estrictamente anterior a ahora se rechaza.
	GraceWindow time.Duration
}

func NewService(repo Repository, petsSvc *pets.Service, providersSvc *providers.Service, opts Options) *Service {
	slotMinutes := opts.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = 30
	}

	return &Service{
		repo:        repo,
		pets:        petsSvc,
		providers:   providersSvc,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		slotMinutes: slotMinutes,
		grace:       opts.GraceWindow,
		now:         time.Now,
	}
}

type BookInput struct {
	CustomerID identity.ID
	PetID      identity.ID
	ProviderID identity.ID

	Date  time.Time
	Start providers.TimeOfDay
	End   providers.TimeOfDay

	Reason string
}

// Book valida y comitea una reserva. Orden de chequeos:
// intervalo -> provider -> horario -> pasado -> ownership -> commit atómico.
// El commit es responsabilidad del repo (InsertIfFree); acá no hay
// check-then-act sobre la disponibilidad.
func (s *Service) Book(ctx context.Context, in BookInput) (Appointment, error) {
	if in.CustomerID.IsZero() || in.PetID.IsZero() || in.ProviderID.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if in.Start >= in.End {
		return Appointment{}, ErrInvalidInterval
	}

	date := NormalizeDate(in.Date)

	p, err := s.providers.GetByID(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			return Appointment{}, ErrProviderNotFound
		}
		return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hours, open := p.WorkingHours.For(date.Weekday())
	if !open {
		return Appointment{}, ErrProviderClosed
	}
	// la cita no tiene que estar alineada a la grilla, pero sí caer completa
	// dentro del horario de ese día
	if in.Start < hours.Open || in.End > hours.Close {
		return Appointment{}, ErrInvalidInterval
	}

	if in.Start.At(date).Before(s.now().Add(-s.grace)) {
		return Appointment{}, ErrSlotInPast
	}

	if err := s.pets.AssertOwnership(ctx, in.CustomerID, in.PetID); err != nil {
		switch {
		case errors.Is(err, pets.ErrOwnershipMismatch):
			return Appointment{}, ErrOwnershipMismatch
		case errors.Is(err, pets.ErrNotFound):
			return Appointment{}, ErrPetNotFound
		case errors.Is(err, pets.ErrInvalidInput):
			return Appointment{}, ErrInvalidInput
		default:
			return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	now := s.now()
	a := Appointment{
		ID:              identity.New(),
		PetID:           in.PetID,
		CustomerID:      in.CustomerID,
		ProviderID:      in.ProviderID,
		Date:            date,
		Start:           in.Start,
		End:             in.End,
		Status:          StatusScheduled,
		Reason:          strings.TrimSpace(in.Reason),
		CreatedAt:       now,
		StatusChangedAt: now,
	}

	if err := s.repo.InsertIfFree(ctx, a); err != nil {
		if errors.Is(err, ErrSlotAlreadyBooked) {
			if s.metrics != nil {
				s.metrics.BookingConflict("slot_taken")
			}
			s.logInfo("booking rejected, slot taken", map[string]any{
				"provider_id": in.ProviderID.String(),
				"date":        date.Format("2006-01-02"),
				"start":       in.Start.String(),
			})
			return Appointment{}, ErrSlotAlreadyBooked
		}
		return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if s.metrics != nil {
		s.metrics.BookingCommitted()
	}
	s.logInfo("booking committed", map[string]any{
		"appointment_id": a.ID.String(),
		"provider_id":    a.ProviderID.String(),
		"date":           date.Format("2006-01-02"),
		"start":          a.Start.String(),
		"end":            a.End.String(),
	})

	return a, nil
}

// ListMine devuelve las citas visibles para el customer.
// La visibilidad se re-deriva del dueño VIGENTE de cada mascota: si la mascota
// cambió de dueño, la cita histórica desaparece de la lista en silencio
// (listar no es afirmar propiedad sobre una cita puntual).
func (s *Service) ListMine(ctx context.Context, customerID identity.ID) ([]Appointment, error) {
	if customerID.IsZero() {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		owner, err := s.pets.OwnerOf(ctx, a.PetID)
		if err != nil || owner != customerID {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})

	return out, nil
}

type Actor struct {
	ID   identity.ID
	Role ActorRole
}

// Transition aplica un cambio de estado con las reglas del ciclo de vida.
// target == estado actual es un no-op exitoso (idempotente), sin re-sellar
// el timestamp.
func (s *Service) Transition(ctx context.Context, appointmentID identity.ID, target Status, actor Actor) (Appointment, error) {
	if appointmentID.IsZero() || actor.ID.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if !target.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return Appointment{}, ErrAppointmentNotFound
		}
		return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// un customer solo toca (o siquiera ve) su propia cita, validado contra
	// el dueño vigente — antes incluso del no-op idempotente
	if actor.Role == ActorCustomer {
		if err := s.pets.AssertOwnership(ctx, actor.ID, a.PetID); err != nil {
			switch {
			case errors.Is(err, pets.ErrOwnershipMismatch), errors.Is(err, pets.ErrNotFound):
				return Appointment{}, ErrOwnershipMismatch
			default:
				return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}
	}

	if a.Status == target {
		return a, nil
	}

	if !roleAllowsTarget(actor.Role, target) {
		return Appointment{}, ErrIllegalTransition
	}
	if !canTransition(a.Status, target) {
		return Appointment{}, ErrIllegalTransition
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, a.ID, target, now); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return Appointment{}, ErrAppointmentNotFound
		}
		return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	a.Status = target
	a.StatusChangedAt = now

	if s.metrics != nil {
		s.metrics.TransitionApplied(target)
	}
	s.logInfo("status transition", map[string]any{
		"appointment_id": a.ID.String(),
		"target":         string(target),
		"actor_role":     string(actor.Role),
	})

	return a, nil
}

// GetByID con chequeo de visibilidad para customers: dueño vigente o nada.
func (s *Service) GetByID(ctx context.Context, appointmentID identity.ID, actor Actor) (Appointment, error) {
	if appointmentID.IsZero() {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return Appointment{}, ErrAppointmentNotFound
		}
		return Appointment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if actor.Role == ActorCustomer {
		if err := s.pets.AssertOwnership(ctx, actor.ID, a.PetID); err != nil {
			return Appointment{}, ErrOwnershipMismatch
		}
	}

	return a, nil
}

func (s *Service) logInfo(msg string, fields map[string]any) {
	if s.log != nil {
		s.log.Info(msg, fields)
	}
}
