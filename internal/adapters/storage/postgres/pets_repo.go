package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (id, owner_id, name, species, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.ID.String(),
		p.OwnerID.String(),
		p.Name,
		string(p.Species),
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET owner_id = $2, name = $3, species = $4, notes = $5, updated_at = $6
		WHERE id = $1
	`,
		p.ID.String(),
		p.OwnerID.String(),
		p.Name,
		string(p.Species),
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id identity.ID) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, species, notes, created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id.String())

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID identity.ID) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, species, notes, created_at, updated_at
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var rawID, rawOwner, species string

	if err := row.Scan(&rawID, &rawOwner, &p.Name, &species, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return pets.Pet{}, err
	}

	id, err := identity.Normalize(rawID)
	if err != nil {
		return pets.Pet{}, err
	}
	owner, err := identity.Normalize(rawOwner)
	if err != nil {
		return pets.Pet{}, err
	}

	p.ID = id
	p.OwnerID = owner
	p.Species = pets.Species(species)
	return p, nil
}
