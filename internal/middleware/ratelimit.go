package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BookingRateLimiter limita cuántas reservas por minuto puede intentar un
// mismo customer. Evita que un cliente agresivo martille el commit atómico
// reintentando el mismo slot en loop.
type BookingRateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu       sync.Mutex
	limiters map[string]*userLimiter

	stopCh chan struct{}
}

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewBookingRateLimiter crea el limiter con perMinute requests/min por usuario.
// Arranca un loop de limpieza de entradas viejas.
func NewBookingRateLimiter(perMinute, burst int, cleanupEvery time.Duration) *BookingRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = perMinute
	}
	if cleanupEvery <= 0 {
		cleanupEvery = 5 * time.Minute
	}

	rl := &BookingRateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		ttl:      cleanupEvery * 2,
		limiters: make(map[string]*userLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop(cleanupEvery)

	return rl
}

func (rl *BookingRateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware exige claims en contexto (va después de AuthContext).
func (rl *BookingRateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims.UserID == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !rl.allow(claims.UserID) {
				retryAfter := int(math.Ceil(1.0 / float64(rl.limit)))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "too many booking attempts", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *BookingRateLimiter) allow(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[userID] = ul
	}
	ul.lastAccess = time.Now()
	return ul.limiter.Allow()
}

func (rl *BookingRateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *BookingRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	for userID, ul := range rl.limiters {
		if now.Sub(ul.lastAccess) > rl.ttl {
			delete(rl.limiters, userID)
		}
	}
	rl.mu.Unlock()
}
