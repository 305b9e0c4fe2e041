package identity

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// ID es la referencia canónica a cualquier entidad (customer, pet, provider).
// Comparable con == ; dos ID son iguales sii apuntan a la misma entidad,
// sin importar la forma externa (UUID en mayúsculas, id numérico legacy, etc).
type ID struct {
	v string
}

// New genera un ID nuevo (UUID v4 canónico).
func New() ID {
	return ID{v: uuid.NewString()}
}

// Normalize convierte una representación externa en un ID canónico.
// Reglas:
//   - UUID en cualquier formato (mayúsculas, con/sin guiones, urn:) => forma canónica lowercase
//   - id numérico legacy => sin ceros a la izquierda ("007" y "7" son la misma entidad)
//   - cualquier otro token simple => tal cual, con espacios recortados
//
// Falla solo si raw no puede codificar una referencia (vacío o con caracteres raros).
func Normalize(raw string) (ID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ID{}, ErrInvalidIdentifier
	}

	if u, err := uuid.Parse(s); err == nil {
		return ID{v: u.String()}, nil
	}

	if isDigits(s) {
		trimmed := strings.TrimLeft(s, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		return ID{v: trimmed}, nil
	}

	if !isToken(s) {
		return ID{}, ErrInvalidIdentifier
	}
	return ID{v: s}, nil
}

// MustNormalize es para tests y seeds; panic si raw es inválido.
func MustNormalize(raw string) ID {
	id, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return id.v }

func (id ID) IsZero() bool { return id.v == "" }

func (id ID) Equal(other ID) bool { return id == other }

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.v), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Normalize(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isToken acepta ids "de texto": letras, dígitos y separadores comunes.
// Rechaza espacios internos y caracteres de control.
func isToken(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == ':' || r == '@':
		default:
			return false
		}
	}
	return true
}
