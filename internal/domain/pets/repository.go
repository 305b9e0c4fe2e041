package pets

import (
	"context"

	"vet-booking/internal/domain/identity"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id identity.ID) (Pet, error)
	ListByOwner(ctx context.Context, ownerID identity.ID) ([]Pet, error)
}
