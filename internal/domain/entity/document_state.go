package entity

// DocumentState estado de un encabezado de ajuste o traslado.
type DocumentState string

const (
	StatePending DocumentState = "PENDING"
	StateApplied DocumentState = "APPLIED"
	StateAnulled DocumentState = "ANULLED"
)

// CanTransitionTo aristas legales: PENDING→APPLIED, PENDING→ANULLED, APPLIED→ANULLED.
func (s DocumentState) CanTransitionTo(next DocumentState) bool {
	switch s {
	case StatePending:
		return next == StateApplied || next == StateAnulled
	case StateApplied:
		return next == StateAnulled
	}
	return false
}

// Valid indica si el estado es conocido.
func (s DocumentState) Valid() bool {
	return s == StatePending || s == StateApplied || s == StateAnulled
}
