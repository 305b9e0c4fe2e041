package memory

import (
	"context"
	"errors"
	"sync"

	"vet-booking/internal/domain/customers"
	"vet-booking/internal/domain/identity"
)

type customersRepo struct {
	mu   sync.RWMutex
	byID map[identity.ID]customers.Customer
}

func NewCustomersRepo() customers.Repository {
	return &customersRepo{
		byID: make(map[identity.ID]customers.Customer),
	}
}

func (r *customersRepo) Create(ctx context.Context, c customers.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID.IsZero() {
		return errors.New("customer id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("customer already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *customersRepo) GetByID(ctx context.Context, id identity.ID) (customers.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return customers.Customer{}, customers.ErrNotFound
	}
	return c, nil
}
