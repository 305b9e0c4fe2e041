package auth

// Role es el rol del actor autenticado.
// @Enum customer, provider, admin
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

// CanManageAppointments: proveedores y admins operan la agenda
// (confirmar, atender, completar, marcar no-show).
func (c Claims) CanManageAppointments() bool {
	return c.Role == RoleProvider || c.Role == RoleAdmin
}
