package pets

import (
	"time"

	"vet-booking/internal/domain/identity"
)

// Species define las especies soportadas.
// @Enum dog, cat, bird, rabbit, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

// Pet tiene exactamente un dueño a la vez (OwnerID).
// OwnerID es la única fuente de verdad para decisiones de acceso:
// nada más guarda "de quién es" esta mascota.
type Pet struct {
	ID      identity.ID
	OwnerID identity.ID

	Name    string
	Species Species
	Notes   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
