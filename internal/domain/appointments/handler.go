package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-booking/internal/domain/identity"
	"vet-booking/internal/domain/providers"
	"vet-booking/internal/middleware"
	"vet-booking/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta el surface del engine:
//
//	GET  /providers/{providerID}/availability?date=YYYY-MM-DD
//	POST /appointments
//	GET  /me/appointments
//	GET  /appointments/{appointmentID}
//	POST /appointments/{appointmentID}/status
//
// bookingLimit (opcional) se aplica solo al POST de reservas.
func RegisterRoutes(r chi.Router, svc *Service, bookingLimit func(http.Handler) http.Handler) {
	r.Get("/providers/{providerID}/availability", availabilityHandler(svc))

	r.Route("/appointments", func(ar chi.Router) {
		if bookingLimit != nil {
			ar.With(bookingLimit).Post("/", createBookingHandler(svc))
		} else {
			ar.Post("/", createBookingHandler(svc))
		}
		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Post("/{appointmentID}/status", changeStatusHandler(svc))
	})

	r.Get("/me/appointments", listMyAppointmentsHandler(svc))
}

type slotResponse struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Occupied bool   `json:"occupied"`
}

type createBookingRequest struct {
	PetID      string `json:"pet_id"`
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	Reason     string `json:"reason"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type appointmentResponse struct {
	ID              string    `json:"id"`
	PetID           string    `json:"pet_id"`
	CustomerID      string    `json:"customer_id"`
	ProviderID      string    `json:"provider_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	StatusChangedAt time.Time `json:"status_changed_at"`
}

// @Summary Disponibilidad de un provider para una fecha
// @Tags availability
// @Produce json
// @Param providerID path string true "Provider ID"
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {array} slotResponse
// @Router /providers/{providerID}/availability [get]
func availabilityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, err := identity.Normalize(chi.URLParam(r, "providerID"))
		if err != nil {
			http.Error(w, "invalid provider id", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(r.URL.Query().Get("date")))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		slots, err := svc.Availability(r.Context(), providerID, date)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		out := make([]slotResponse, 0, len(slots))
		for _, s := range slots {
			out = append(out, slotResponse{
				Start:    s.Start.String(),
				End:      s.End.String(),
				Occupied: s.Occupied,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Crear reserva
// @Tags appointments
// @Accept json
// @Produce json
// @Success 201 {object} appointmentResponse
// @Router /appointments [post]
func createBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseBookInput(actor.ID, req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Book(r.Context(), in)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// @Summary Mis citas
// @Tags appointments
// @Produce json
// @Success 200 {array} appointmentResponse
// @Router /me/appointments [get]
func listMyAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListMine(r.Context(), actor.ID)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := identity.Normalize(chi.URLParam(r, "appointmentID"))
		if err != nil {
			http.Error(w, "invalid appointment id", http.StatusBadRequest)
			return
		}

		a, err := svc.GetByID(r.Context(), id, actor)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// @Summary Cambiar estado de una cita
// @Tags appointments
// @Accept json
// @Produce json
// @Success 200 {object} appointmentResponse
// @Router /appointments/{appointmentID}/status [post]
func changeStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := identity.Normalize(chi.URLParam(r, "appointmentID"))
		if err != nil {
			http.Error(w, "invalid appointment id", http.StatusBadRequest)
			return
		}

		var req changeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		target := Status(strings.ToLower(strings.TrimSpace(req.Status)))
		if !target.Valid() {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}

		a, err := svc.Transition(r.Context(), id, target, actor)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func actorFromRequest(r *http.Request) (Actor, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return Actor{}, false
	}
	id, err := identity.Normalize(claims.UserID)
	if err != nil {
		return Actor{}, false
	}
	return Actor{ID: id, Role: actorRole(claims.Role)}, true
}

func actorRole(r auth.Role) ActorRole {
	switch r {
	case auth.RoleProvider:
		return ActorProvider
	case auth.RoleAdmin:
		return ActorAdmin
	default:
		return ActorCustomer
	}
}

func parseBookInput(customerID identity.ID, req createBookingRequest) (BookInput, error) {
	petID, err := identity.Normalize(req.PetID)
	if err != nil {
		return BookInput{}, errors.New("invalid pet_id")
	}
	providerID, err := identity.Normalize(req.ProviderID)
	if err != nil {
		return BookInput{}, errors.New("invalid provider_id")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return BookInput{}, errors.New("date must be YYYY-MM-DD")
	}

	start, err := providers.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return BookInput{}, errors.New("start_time must be HH:MM")
	}
	end, err := providers.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return BookInput{}, errors.New("end_time must be HH:MM")
	}

	return BookInput{
		CustomerID: customerID,
		PetID:      petID,
		ProviderID: providerID,
		Date:       date,
		Start:      start,
		End:        end,
		Reason:     req.Reason,
	}, nil
}

// writeEngineError mapea la taxonomía del engine a HTTP.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProviderNotFound),
		errors.Is(err, ErrPetNotFound),
		errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrOwnershipMismatch):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrSlotAlreadyBooked), errors.Is(err, ErrIllegalTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrProviderClosed),
		errors.Is(err, ErrSlotInPast),
		errors.Is(err, ErrInvalidInterval):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrStoreUnavailable):
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID.String(),
		PetID:           a.PetID.String(),
		CustomerID:      a.CustomerID.String(),
		ProviderID:      a.ProviderID.String(),
		Date:            a.Date.Format("2006-01-02"),
		StartTime:       a.Start.String(),
		EndTime:         a.End.String(),
		Status:          string(a.Status),
		Reason:          a.Reason,
		CreatedAt:       a.CreatedAt,
		StatusChangedAt: a.StatusChangedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
