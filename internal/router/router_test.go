package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vet-booking/internal/config"
)

// e2e contra el router completo con repos en memoria y auth en modo dev
// (headers X-Debug-User-ID / X-Debug-Role).

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Port:              "0",
		SlotMinutes:       60,
		BookingRatePerMin: 600,
		BookingRateBurst:  100,
		LogLevel:          "error",
		LogFormat:         "text",
		AppName:           "vet-booking-test",
	}

	srv := httptest.NewServer(NewRouter(Options{Config: &cfg}))
	t.Cleanup(srv.Close)
	return srv
}

func doReq(t *testing.T, srv *httptest.Server, method, path, userID, role string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
		req.Header.Set("X-Debug-Role", role)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func decode(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
}

// próximo lunes, al menos una semana adelante, para que nada caiga en el pasado
func nextMonday() string {
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func createProvider(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp, raw := doReq(t, srv, http.MethodPost, "/providers", "admin-1", "admin", map[string]any{
		"name":             "Clínica Central",
		"kind":             "clinic",
		"consultation_fee": 50,
		"working_hours": map[string]any{
			"monday": map[string]string{"open": "09:00", "close": "12:00"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create provider: status %d body %s", resp.StatusCode, raw)
	}

	var out struct {
		ID string `json:"id"`
	}
	decode(t, raw, &out)
	return out.ID
}

func createPet(t *testing.T, srv *httptest.Server, ownerID, name string) string {
	t.Helper()

	resp, raw := doReq(t, srv, http.MethodPost, "/customers", ownerID, "customer", map[string]string{
		"name":  ownerID,
		"email": ownerID + "@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register customer: status %d body %s", resp.StatusCode, raw)
	}

	resp, raw = doReq(t, srv, http.MethodPost, "/pets", ownerID, "customer", map[string]string{
		"name":    name,
		"species": "dog",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create pet: status %d body %s", resp.StatusCode, raw)
	}

	var out struct {
		ID string `json:"id"`
	}
	decode(t, raw, &out)
	return out.ID
}

type slotJSON struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Occupied bool   `json:"occupied"`
}

func TestE2E_BookingFlow(t *testing.T) {
	srv := newTestServer(t)

	providerID := createProvider(t, srv)
	alicePet := createPet(t, srv, "alice", "Milo")
	bobPet := createPet(t, srv, "bob", "Nina")

	date := nextMonday()
	availabilityPath := fmt.Sprintf("/providers/%s/availability?date=%s", providerID, date)

	// grilla inicial: 09-12 con slots de 60 => 3 libres
	resp, raw := doReq(t, srv, http.MethodGet, availabilityPath, "alice", "customer", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability: status %d body %s", resp.StatusCode, raw)
	}
	var slots []slotJSON
	decode(t, raw, &slots)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d (%s)", len(slots), raw)
	}
	for _, s := range slots {
		if s.Occupied {
			t.Fatalf("fresh grid should be free, got %+v", s)
		}
	}

	// alice reserva 10:00-11:00
	booking := map[string]string{
		"pet_id":      alicePet,
		"provider_id": providerID,
		"date":        date,
		"start_time":  "10:00",
		"end_time":    "11:00",
		"reason":      "checkup",
	}
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments", "alice", "customer", booking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("book: status %d body %s", resp.StatusCode, raw)
	}
	var appt struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, raw, &appt)
	if appt.Status != "scheduled" {
		t.Fatalf("expected scheduled, got %s", appt.Status)
	}

	// bob choca contra el mismo slot
	conflict := map[string]string{
		"pet_id":      bobPet,
		"provider_id": providerID,
		"date":        date,
		"start_time":  "10:00",
		"end_time":    "11:00",
	}
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments", "bob", "customer", conflict)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", resp.StatusCode, raw)
	}

	// la grilla refleja el slot tomado
	resp, raw = doReq(t, srv, http.MethodGet, availabilityPath, "bob", "customer", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability: status %d", resp.StatusCode)
	}
	decode(t, raw, &slots)
	for _, s := range slots {
		if s.Start == "10:00" && !s.Occupied {
			t.Fatalf("10:00 slot should be occupied")
		}
		if s.Start != "10:00" && s.Occupied {
			t.Fatalf("slot %s should be free", s.Start)
		}
	}

	// bob no puede cancelar la cita de alice
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments/"+appt.ID+"/status", "bob", "customer", map[string]string{"status": "cancelled"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body %s", resp.StatusCode, raw)
	}

	// alice tampoco puede marcarla como completada (eso es del provider)
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments/"+appt.ID+"/status", "alice", "customer", map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", resp.StatusCode, raw)
	}

	// alice la ve en /me/appointments
	resp, raw = doReq(t, srv, http.MethodGet, "/me/appointments", "alice", "customer", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list mine: status %d", resp.StatusCode)
	}
	var mine []struct {
		ID string `json:"id"`
	}
	decode(t, raw, &mine)
	if len(mine) != 1 || mine[0].ID != appt.ID {
		t.Fatalf("expected alice's 1 appointment, got %s", raw)
	}

	// alice cancela; el slot queda libre y bob puede reservarlo
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments/"+appt.ID+"/status", "alice", "customer", map[string]string{"status": "cancelled"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d body %s", resp.StatusCode, raw)
	}

	resp, raw = doReq(t, srv, http.MethodPost, "/appointments", "bob", "customer", conflict)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rebook freed slot: status %d body %s", resp.StatusCode, raw)
	}
}

func TestE2E_ProviderLifecycle(t *testing.T) {
	srv := newTestServer(t)

	providerID := createProvider(t, srv)
	alicePet := createPet(t, srv, "alice", "Milo")

	resp, raw := doReq(t, srv, http.MethodPost, "/appointments", "alice", "customer", map[string]string{
		"pet_id":      alicePet,
		"provider_id": providerID,
		"date":        nextMonday(),
		"start_time":  "09:00",
		"end_time":    "10:00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("book: status %d body %s", resp.StatusCode, raw)
	}
	var appt struct {
		ID string `json:"id"`
	}
	decode(t, raw, &appt)

	// confirmed -> in_progress -> completed, como staff del provider
	for _, target := range []string{"confirmed", "in_progress", "completed"} {
		resp, raw = doReq(t, srv, http.MethodPost, "/appointments/"+appt.ID+"/status", "staff-1", "provider", map[string]string{"status": target})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition to %s: status %d body %s", target, resp.StatusCode, raw)
		}
	}

	// estado terminal: nada más se mueve
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments/"+appt.ID+"/status", "staff-1", "provider", map[string]string{"status": "cancelled"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on terminal, got %d body %s", resp.StatusCode, raw)
	}
}

func TestE2E_GuardRails(t *testing.T) {
	srv := newTestServer(t)

	providerID := createProvider(t, srv)
	alicePet := createPet(t, srv, "alice", "Milo")

	// cerrado los domingos
	sunday := nextMonday()
	d, _ := time.Parse("2006-01-02", sunday)
	closed := d.AddDate(0, 0, 6).Format("2006-01-02")

	resp, raw := doReq(t, srv, http.MethodPost, "/appointments", "alice", "customer", map[string]string{
		"pet_id":      alicePet,
		"provider_id": providerID,
		"date":        closed,
		"start_time":  "10:00",
		"end_time":    "11:00",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("closed day: expected 422, got %d body %s", resp.StatusCode, raw)
	}

	// fuera del horario
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments", "alice", "customer", map[string]string{
		"pet_id":      alicePet,
		"provider_id": providerID,
		"date":        nextMonday(),
		"start_time":  "08:00",
		"end_time":    "09:00",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("outside hours: expected 422, got %d body %s", resp.StatusCode, raw)
	}

	// sin identidad => 401
	resp, raw = doReq(t, srv, http.MethodPost, "/appointments", "", "", map[string]string{})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous booking: expected 401, got %d body %s", resp.StatusCode, raw)
	}

	// provider inexistente => 404
	resp, raw = doReq(t, srv, http.MethodGet, "/providers/ffffffff-ffff-4fff-8fff-ffffffffffff/availability?date="+nextMonday(), "alice", "customer", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown provider: expected 404, got %d body %s", resp.StatusCode, raw)
	}
}

func TestE2E_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doReq(t, srv, http.MethodGet, "/health", "", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}

	resp, raw := doReq(t, srv, http.MethodGet, "/metrics", "", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: status %d", resp.StatusCode)
	}
	if !bytes.Contains(raw, []byte("vetbooking_")) {
		t.Fatalf("expected vetbooking_ metrics in exposition, got %q", raw[:min(len(raw), 200)])
	}
}
