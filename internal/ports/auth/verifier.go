package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
// La implementación vive fuera del engine (colaborador externo).
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
