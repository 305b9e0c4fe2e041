package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/domain/customers"
	"vet-booking/internal/domain/identity"
)

type CustomersRepo struct {
	db *sql.DB
}

func NewCustomersRepo(db *sql.DB) *CustomersRepo {
	return &CustomersRepo{db: db}
}

func (r *CustomersRepo) Create(ctx context.Context, c customers.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		c.ID.String(),
		c.Name,
		c.Email,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CustomersRepo) GetByID(ctx context.Context, id identity.ID) (customers.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id.String())

	var c customers.Customer
	var rawID string
	if err := row.Scan(&rawID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return customers.Customer{}, customers.ErrNotFound
		}
		return customers.Customer{}, err
	}

	parsed, err := identity.Normalize(rawID)
	if err != nil {
		return customers.Customer{}, err
	}
	c.ID = parsed

	return c, nil
}
