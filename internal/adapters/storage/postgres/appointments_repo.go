package postgres

import (
	"context"
	"database/sql"
	"time"

	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/providers"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

// InsertIfFree comitea la reserva de forma atómica. En una transacción:
//  1. advisory lock por (provider, date) — serializa los intentos sobre la
//     misma agenda del día sin bloquear el resto de la tabla
//  2. re-chequeo de solape contra citas no-terminales
//  3. insert
//
// El predicado de solape es el semiabierto de siempre:
// start < existing.end AND existing.start < end.
func (r *AppointmentsRepo) InsertIfFree(ctx context.Context, a appointments.Appointment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		SELECT pg_advisory_xact_lock(hashtext($1 || '|' || $2))
	`, a.ProviderID.String(), a.Date.Format("2006-01-02")); err != nil {
		return err
	}

	var taken bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE provider_id = $1
			  AND date = $2
			  AND status IN ('scheduled','confirmed','in_progress')
			  AND start_min < $4
			  AND end_min > $3
		)
	`, a.ProviderID.String(), a.Date, int(a.Start), int(a.End)).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return appointments.ErrSlotAlreadyBooked
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO appointments (
			id, pet_id, customer_id, provider_id,
			date, start_min, end_min,
			status, reason, created_at, status_changed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		a.ID.String(),
		a.PetID.String(),
		a.CustomerID.String(),
		a.ProviderID.String(),
		a.Date,
		int(a.Start),
		int(a.End),
		string(a.Status),
		a.Reason,
		a.CreatedAt,
		a.StatusChangedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id identity.ID) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, customer_id, provider_id,
		       date, start_min, end_min,
		       status, reason, created_at, status_changed_at
		FROM appointments
		WHERE id = $1
	`, id.String())

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrAppointmentNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByProviderDate(ctx context.Context, providerID identity.ID, date time.Time, statuses []appointments.Status) ([]appointments.Appointment, error) {
	// statuses como array de texto; vacío = todos
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, customer_id, provider_id,
		       date, start_min, end_min,
		       status, reason, created_at, status_changed_at
		FROM appointments
		WHERE provider_id = $1
		  AND date = $2
		  AND (cardinality($3::text[]) = 0 OR status = ANY($3::text[]))
		ORDER BY start_min ASC
	`, providerID.String(), date, textArray(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListByCustomer(ctx context.Context, customerID identity.ID) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, customer_id, provider_id,
		       date, start_min, end_min,
		       status, reason, created_at, status_changed_at
		FROM appointments
		WHERE customer_id = $1
		ORDER BY date ASC, start_min ASC
	`, customerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) UpdateStatus(ctx context.Context, id identity.ID, status appointments.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = $2, status_changed_at = $3
		WHERE id = $1
	`, id.String(), string(status), at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrAppointmentNotFound
	}
	return nil
}

func collectAppointments(rows *sql.Rows) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var rawID, rawPet, rawCustomer, rawProvider, status string
	var startMin, endMin int

	if err := row.Scan(
		&rawID, &rawPet, &rawCustomer, &rawProvider,
		&a.Date, &startMin, &endMin,
		&status, &a.Reason, &a.CreatedAt, &a.StatusChangedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	ids := make([]identity.ID, 4)
	for i, raw := range []string{rawID, rawPet, rawCustomer, rawProvider} {
		parsed, err := identity.Normalize(raw)
		if err != nil {
			return appointments.Appointment{}, err
		}
		ids[i] = parsed
	}

	a.ID = ids[0]
	a.PetID = ids[1]
	a.CustomerID = ids[2]
	a.ProviderID = ids[3]
	a.Start = providers.TimeOfDay(startMin)
	a.End = providers.TimeOfDay(endMin)
	a.Status = appointments.Status(status)
	a.Date = appointments.NormalizeDate(a.Date)

	return a, nil
}

// textArray arma el literal {a,b,c} para pasar []string como text[] sin
// depender del modo binario del driver.
func textArray(items []string) string {
	if len(items) == 0 {
		return "{}"
	}
	out := "{"
	for i, s := range items {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out + "}"
}
