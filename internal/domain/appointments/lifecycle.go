package appointments

// ActorRole es el rol del actor que pide una transición.
// Espejo local del rol de auth para no acoplar el dominio al puerto de auth.
type ActorRole string

const (
	ActorCustomer ActorRole = "customer"
	ActorProvider ActorRole = "provider"
	ActorAdmin    ActorRole = "admin"
)

// Grafo de transiciones legales:
//
//	scheduled -> confirmed | cancelled | no_show
//	confirmed -> in_progress | cancelled | no_show
//	in_progress -> completed
//	completed / cancelled / no_show -> (nada)
var lifecycle = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

func canTransition(from, to Status) bool {
	for _, next := range lifecycle[from] {
		if next == to {
			return true
		}
	}
	return false
}

// roleAllowsTarget: customers solo cancelan (su propia cita); el resto de los
// movimientos de agenda son de provider/admin.
func roleAllowsTarget(role ActorRole, target Status) bool {
	switch role {
	case ActorProvider, ActorAdmin:
		return true
	case ActorCustomer:
		return target == StatusCancelled
	}
	return false
}
