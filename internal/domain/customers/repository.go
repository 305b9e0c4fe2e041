package customers

import (
	"context"

	"vet-booking/internal/domain/identity"
)

type Repository interface {
	Create(ctx context.Context, c Customer) error
	GetByID(ctx context.Context, id identity.ID) (Customer, error)
}
