// Package metrics expone contadores Prometheus del engine de reservas.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vet-booking/internal/domain/appointments"
)

// Collector implementa appointments.Metrics sobre Prometheus.
type Collector struct {
	registry *prometheus.Registry

	bookingsCommitted prometheus.Counter
	bookingConflicts  *prometheus.CounterVec
	availability      prometheus.Counter
	slotsComputed     prometheus.Counter
	transitions       *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		bookingsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vetbooking_bookings_committed_total",
			Help: "Reservas comiteadas con éxito.",
		}),
		bookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetbooking_booking_conflicts_total",
			Help: "Reservas rechazadas, por motivo.",
		}, []string{"reason"}),
		availability: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vetbooking_availability_queries_total",
			Help: "Consultas de disponibilidad atendidas.",
		}),
		slotsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vetbooking_availability_slots_total",
			Help: "Slots generados acumulados en consultas de disponibilidad.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vetbooking_status_transitions_total",
			Help: "Transiciones de estado aplicadas, por estado destino.",
		}, []string{"target"}),
	}

	reg.MustRegister(
		c.bookingsCommitted,
		c.bookingConflicts,
		c.availability,
		c.slotsComputed,
		c.transitions,
	)

	return c
}

func (c *Collector) BookingCommitted() {
	c.bookingsCommitted.Inc()
}

func (c *Collector) BookingConflict(reason string) {
	c.bookingConflicts.WithLabelValues(reason).Inc()
}

func (c *Collector) AvailabilityComputed(slots int) {
	c.availability.Inc()
	c.slotsComputed.Add(float64(slots))
}

func (c *Collector) TransitionApplied(target appointments.Status) {
	c.transitions.WithLabelValues(string(target)).Inc()
}

// Handler sirve /metrics sobre el registry propio (no el global).
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
