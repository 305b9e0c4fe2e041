package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("customer not found")
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

type RegisterInput struct {
	Name  string
	Email string
}

// Register crea un customer. El ID puede venir del sistema de auth externo
// (claims) o generarse acá si no se provee.
func (s *Service) Register(ctx context.Context, id identity.ID, in RegisterInput) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, ErrInvalidInput
	}
	if id.IsZero() {
		id = identity.New()
	}

	now := s.now()
	c := Customer{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(strings.ToLower(in.Email)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id identity.ID) (Customer, error) {
	if id.IsZero() {
		return Customer{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
