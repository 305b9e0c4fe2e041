package providers

import (
	"context"

	"vet-booking/internal/domain/identity"
)

type Repository interface {
	Create(ctx context.Context, p Provider) error
	GetByID(ctx context.Context, id identity.ID) (Provider, error)
}
