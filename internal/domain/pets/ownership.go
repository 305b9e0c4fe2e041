package pets

import (
	"context"
	"errors"

	"vet-booking/internal/domain/identity"
)

var (
	ErrOwnershipMismatch = errors.New("pet does not belong to customer")
)

// AssertOwnership verifica que la mascota pertenezca HOY al customer.
// Siempre re-deriva desde el OwnerID vigente de la mascota; nunca confía en
// un customerID desnormalizado guardado en otra tabla, porque el dueño puede
// cambiar y ese campo queda obsoleto.
func (s *Service) AssertOwnership(ctx context.Context, customerID, petID identity.ID) error {
	if customerID.IsZero() || petID.IsZero() {
		return ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if p.OwnerID != customerID {
		return ErrOwnershipMismatch
	}
	return nil
}

// OwnerOf expone el dueño vigente de una mascota.
// Existe para que otros módulos (appointments) filtren sin ciclos de imports.
func (s *Service) OwnerOf(ctx context.Context, petID identity.ID) (identity.ID, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return identity.ID{}, err
	}
	return p.OwnerID, nil
}
