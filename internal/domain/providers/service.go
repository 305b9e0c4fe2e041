package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("provider not found")
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
	Name            string
	Kind            Kind
	WorkingHours    WorkingHours
	ConsultationFee float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Provider, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Provider{}, ErrInvalidInput
	}

	kind := in.Kind
	if kind == "" {
		kind = KindVet
	}
	if kind != KindVet && kind != KindClinic {
		return Provider{}, ErrInvalidInput
	}

	if in.ConsultationFee < 0 {
		return Provider{}, ErrInvalidInput
	}
	if err := in.WorkingHours.Validate(); err != nil {
		return Provider{}, ErrInvalidInput
	}

	now := s.now()
	p := Provider{
		ID:              identity.New(),
		Name:            strings.TrimSpace(in.Name),
		Kind:            kind,
		WorkingHours:    in.WorkingHours,
		ConsultationFee: in.ConsultationFee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Provider{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id identity.ID) (Provider, error) {
	if id.IsZero() {
		return Provider{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
