package entity

// ActorIdentity quién dispara una operación mutante. Se pasa explícito en cada llamada.
type ActorIdentity struct {
	UserID string
	Name   string
}
