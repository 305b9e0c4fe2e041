package memory

import (
	"context"
	"errors"
	"sync"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/providers"
)

type providersRepo struct {
	mu   sync.RWMutex
	byID map[identity.ID]providers.Provider
}

func NewProvidersRepo() providers.Repository {
	return &providersRepo{
		byID: make(map[identity.ID]providers.Provider),
	}
}

func (r *providersRepo) Create(ctx context.Context, p providers.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID.IsZero() {
		return errors.New("provider id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("provider already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *providersRepo) GetByID(ctx context.Context, id identity.ID) (providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return providers.Provider{}, providers.ErrNotFound
	}
	return p, nil
}
