package customers

import (
	"time"

	"vet-booking/internal/domain/identity"
)

// Customer es el dueño de mascotas que reserva citas.
type Customer struct {
	ID    identity.ID
	Name  string
	Email string

	CreatedAt time.Time
	UpdatedAt time.Time
}
