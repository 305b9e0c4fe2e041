package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Species Species
	Notes   string
}

func (s *Service) Create(ctx context.Context, ownerID identity.ID, in CreateInput) (Pet, error) {
	if ownerID.IsZero() {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	species := in.Species
	if species == "" {
		species = SpeciesOther
	}
	switch species {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
	default:
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:        identity.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Species:   species,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id identity.ID) (Pet, error) {
	if id.IsZero() {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID identity.ID) ([]Pet, error) {
	if ownerID.IsZero() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Transfer cambia el dueño de una mascota. Solo el dueño actual puede hacerlo.
// Las citas existentes conservan su CustomerID histórico: el filtro de
// visibilidad re-deriva siempre desde el OwnerID vigente (ver ownership.go).
func (s *Service) Transfer(ctx context.Context, petID, fromOwner, toOwner identity.ID) (Pet, error) {
	if petID.IsZero() || fromOwner.IsZero() || toOwner.IsZero() {
		return Pet{}, ErrInvalidInput
	}
	if fromOwner == toOwner {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerID != fromOwner {
		return Pet{}, ErrOwnershipMismatch
	}

	p.OwnerID = toOwner
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
