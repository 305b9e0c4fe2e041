package appointments

import (
	"context"
	"time"

	"vet-booking/internal/domain/identity"
)

// Repository es el contrato con el Entity Store para citas.
//
// InsertIfFree es la primitiva atómica del booking: inserta la cita solo si
// ningún appointment no-terminal del mismo provider+date solapa el intervalo.
// Ante dos intentos concurrentes por el mismo slot, exactamente uno gana y el
// otro recibe ErrSlotAlreadyBooked. La exclusión se resuelve en el store
// (lock en memoria, advisory lock en Postgres), no con check-then-act.
type Repository interface {
	InsertIfFree(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id identity.ID) (Appointment, error)
	ListByProviderDate(ctx context.Context, providerID identity.ID, date time.Time, statuses []Status) ([]Appointment, error)
	ListByCustomer(ctx context.Context, customerID identity.ID) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id identity.ID, status Status, at time.Time) error
}
