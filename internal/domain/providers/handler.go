package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/providers", func(pr chi.Router) {
		pr.Post("/", createProviderHandler(svc))
		pr.Get("/{providerID}", getProviderHandler(svc))
	})
}

// Horario por día en el body: {"monday": {"open": "09:00", "close": "18:00"}, ...}
// Día ausente = cerrado.
type dayHoursRequest struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type createProviderRequest struct {
	Name            string                     `json:"name"`
	Kind            string                     `json:"kind"`
	ConsultationFee float64                    `json:"consultation_fee"`
	WorkingHours    map[string]dayHoursRequest `json:"working_hours"`
}

type providerResponse struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Kind            string                     `json:"kind"`
	ConsultationFee float64                    `json:"consultation_fee"`
	WorkingHours    map[string]dayHoursRequest `json:"working_hours"`
	CreatedAt       time.Time                  `json:"created_at"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// @Summary Alta de provider (admin)
// @Tags providers
// @Accept json
// @Produce json
// @Success 201 {object} providerResponse
// @Router /providers [post]
func createProviderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.CanManageAppointments() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createProviderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		wh, err := parseWorkingHours(req.WorkingHours)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:            req.Name,
			Kind:            Kind(strings.TrimSpace(req.Kind)),
			WorkingHours:    wh,
			ConsultationFee: req.ConsultationFee,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toProviderResponse(p))
	}
}

// @Summary Detalle de provider
// @Tags providers
// @Produce json
// @Success 200 {object} providerResponse
// @Router /providers/{providerID} [get]
func getProviderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identity.Normalize(chi.URLParam(r, "providerID"))
		if err != nil {
			http.Error(w, "invalid provider id", http.StatusBadRequest)
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "provider not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toProviderResponse(p))
	}
}

func parseWorkingHours(in map[string]dayHoursRequest) (WorkingHours, error) {
	wh := WorkingHours{}
	for name, h := range in {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, errors.New("unknown weekday: " + name)
		}
		open, err := ParseTimeOfDay(h.Open)
		if err != nil {
			return nil, errors.New(name + ": open must be HH:MM")
		}
		closeAt, err := ParseTimeOfDay(h.Close)
		if err != nil {
			return nil, errors.New(name + ": close must be HH:MM")
		}
		wh[day] = DayHours{Open: open, Close: closeAt}
	}
	return wh, nil
}

func toProviderResponse(p Provider) providerResponse {
	hours := make(map[string]dayHoursRequest, len(p.WorkingHours))
	for name, day := range weekdayNames {
		if h, open := p.WorkingHours.For(day); open {
			hours[name] = dayHoursRequest{Open: h.Open.String(), Close: h.Close.String()}
		}
	}
	return providerResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Kind:            string(p.Kind),
		ConsultationFee: p.ConsultationFee,
		WorkingHours:    hours,
		CreatedAt:       p.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
