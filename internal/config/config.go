// Package config carga la configuración desde variables de entorno.
// Se lee una vez al arrancar y se trata como inmutable.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string

	// Database (vacío = repos in-memory, modo dev)
	DatabaseDSN string

	// Booking
	SlotMinutes        int           // granularidad de la grilla de slots
	BookingGraceWindow time.Duration // tolerancia para reservar "apenas pasado" el inicio

	// Rate limit de reservas por customer
	BookingRatePerMin int
	BookingRateBurst  int

	// Logging
	LogLevel  string
	LogFormat string
	AppName   string
}

// Load arma la Config con defaults razonables; nada es obligatorio,
// sin DB_DSN el server levanta con repos en memoria.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: os.Getenv("DB_DSN"),

		SlotMinutes:        getEnvInt("SLOT_MINUTES", 30),
		BookingGraceWindow: getEnvDuration("BOOKING_GRACE", 0),

		BookingRatePerMin: getEnvInt("BOOKING_RATE_PER_MIN", 30),
		BookingRateBurst:  getEnvInt("BOOKING_RATE_BURST", 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		AppName:   getEnv("APP_NAME", "vet-booking"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
