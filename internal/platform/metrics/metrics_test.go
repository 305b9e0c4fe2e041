package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vet-booking/internal/domain/appointments"
)

func TestCollector_CountsBookings(t *testing.T) {
	c := NewCollector()

	c.BookingCommitted()
	c.BookingCommitted()
	c.BookingConflict("slot_taken")

	mfs, err := c.registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var committed, conflicts float64
	for _, mf := range mfs {
		switch mf.GetName() {
		case "vetbooking_bookings_committed_total":
			committed = mf.GetMetric()[0].GetCounter().GetValue()
		case "vetbooking_booking_conflicts_total":
			conflicts = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}

	if committed != 2 {
		t.Errorf("bookings_committed_total = %v, want 2", committed)
	}
	if conflicts != 1 {
		t.Errorf("booking_conflicts_total = %v, want 1", conflicts)
	}
}

func TestCollector_HandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.TransitionApplied(appointments.StatusCancelled)

	ts := httptest.NewServer(c.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "vetbooking_status_transitions_total") {
		t.Fatalf("expected transitions metric in output, got:\n%s", string(body))
	}
}
