package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/providers"
)

type ProvidersRepo struct {
	db *sql.DB
}

func NewProvidersRepo(db *sql.DB) *ProvidersRepo {
	return &ProvidersRepo{db: db}
}

// working_hours se guarda como JSONB: {"1": {"open": 540, "close": 1080}, ...}
// con la key = time.Weekday numérico. Día ausente = cerrado.
type storedDayHours struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

func encodeHours(wh providers.WorkingHours) ([]byte, error) {
	m := make(map[int]storedDayHours, len(wh))
	for day, h := range wh {
		m[int(day)] = storedDayHours{Open: int(h.Open), Close: int(h.Close)}
	}
	return json.Marshal(m)
}

func decodeHours(raw []byte) (providers.WorkingHours, error) {
	var m map[int]storedDayHours
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	wh := providers.WorkingHours{}
	for day, h := range m {
		wh[time.Weekday(day)] = providers.DayHours{
			Open:  providers.TimeOfDay(h.Open),
			Close: providers.TimeOfDay(h.Close),
		}
	}
	return wh, nil
}

func (r *ProvidersRepo) Create(ctx context.Context, p providers.Provider) error {
	hours, err := encodeHours(p.WorkingHours)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO providers (id, name, kind, working_hours, consultation_fee, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.ID.String(),
		p.Name,
		string(p.Kind),
		hours,
		p.ConsultationFee,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *ProvidersRepo) GetByID(ctx context.Context, id identity.ID) (providers.Provider, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, working_hours, consultation_fee, created_at, updated_at
		FROM providers
		WHERE id = $1
	`, id.String())

	var p providers.Provider
	var rawID, kind string
	var rawHours []byte

	if err := row.Scan(&rawID, &p.Name, &kind, &rawHours, &p.ConsultationFee, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return providers.Provider{}, providers.ErrNotFound
		}
		return providers.Provider{}, err
	}

	parsed, err := identity.Normalize(rawID)
	if err != nil {
		return providers.Provider{}, err
	}
	hours, err := decodeHours(rawHours)
	if err != nil {
		return providers.Provider{}, err
	}

	p.ID = parsed
	p.Kind = providers.Kind(kind)
	p.WorkingHours = hours
	return p, nil
}
