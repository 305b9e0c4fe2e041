package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "vet-booking/internal/adapters/storage/memory"
	pg "vet-booking/internal/adapters/storage/postgres"
	"vet-booking/internal/config"
	"vet-booking/internal/domain/appointments"
	"vet-booking/internal/domain/customers"
	"vet-booking/internal/domain/pets"
	"vet-booking/internal/domain/providers"
	"vet-booking/internal/middleware"
	"vet-booking/internal/platform/logger"
	"vet-booking/internal/platform/metrics"
	"vet-booking/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "vet-booking/docs"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN y cae a in-memory.
	DB *sql.DB

	// Opcional: si viene vacía se carga desde env.
	Config *config.Config

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	cfg := config.Load()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	log := opts.Logger
	if log == nil {
		log = logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.LogLevel),
			Format: logger.ParseFormat(cfg.LogFormat),
			App:    cfg.AppName,
		})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		customersRepo    customers.Repository
		petsRepo         pets.Repository
		providersRepo    providers.Repository
		appointmentsRepo appointments.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil && cfg.DatabaseDSN != "" {
		opened, err := pg.Open(cfg.DatabaseDSN)
		if err == nil {
			db = opened
		} else {
			log.Warn("postgres unavailable, falling back to in-memory repos", map[string]any{
				"error": err.Error(),
			})
		}
	}

	if db != nil {
		customersRepo = pg.NewCustomersRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		providersRepo = pg.NewProvidersRepo(db)
		appointmentsRepo = pg.NewAppointmentsRepo(db)
	} else {
		customersRepo = mem.NewCustomersRepo()
		petsRepo = mem.NewPetsRepo()
		providersRepo = mem.NewProvidersRepo()
		appointmentsRepo = mem.NewAppointmentsRepo()
	}

	collector := metrics.NewCollector()

	// Services por módulo
	customersSvc := customers.NewService(customersRepo)
	petsSvc := pets.NewService(petsRepo)
	providersSvc := providers.NewService(providersRepo)
	appointmentsSvc := appointments.NewService(appointmentsRepo, petsSvc, providersSvc, appointments.Options{
		Logger:      log,
		Metrics:     collector,
		SlotMinutes: cfg.SlotMinutes,
		GraceWindow: cfg.BookingGraceWindow,
	})

	bookingLimiter := middleware.NewBookingRateLimiter(cfg.BookingRatePerMin, cfg.BookingRateBurst, 5*time.Minute)

	// Rutas por módulo
	customers.RegisterRoutes(r, customersSvc)
	pets.RegisterRoutes(r, petsSvc)
	providers.RegisterRoutes(r, providersSvc)
	appointments.RegisterRoutes(r, appointmentsSvc, bookingLimiter.Middleware())

	r.Handle("/metrics", collector.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
