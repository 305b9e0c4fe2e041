package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SlotMinutes != 30 {
		t.Errorf("SlotMinutes = %d, want 30", cfg.SlotMinutes)
	}
	if cfg.BookingGraceWindow != 0 {
		t.Errorf("BookingGraceWindow = %v, want 0", cfg.BookingGraceWindow)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SLOT_MINUTES", "60")
	t.Setenv("BOOKING_GRACE", "5m")
	t.Setenv("PORT", "9090")

	cfg := Load()

	if cfg.SlotMinutes != 60 {
		t.Errorf("SlotMinutes = %d, want 60", cfg.SlotMinutes)
	}
	if cfg.BookingGraceWindow != 5*time.Minute {
		t.Errorf("BookingGraceWindow = %v, want 5m", cfg.BookingGraceWindow)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
}

func TestLoad_IgnoresGarbage(t *testing.T) {
	t.Setenv("SLOT_MINUTES", "-15")
	t.Setenv("BOOKING_GRACE", "whatever")

	cfg := Load()

	if cfg.SlotMinutes != 30 {
		t.Errorf("SlotMinutes = %d, want fallback 30", cfg.SlotMinutes)
	}
	if cfg.BookingGraceWindow != 0 {
		t.Errorf("BookingGraceWindow = %v, want fallback 0", cfg.BookingGraceWindow)
	}
}
