package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrAlreadyAnulled         = errors.New("el documento ya está anulado")
	ErrConcurrencyConflict    = errors.New("conflicto de concurrencia, reintente la operación")
)

// ValidationError entrada rechazada antes de abrir cualquier transacción.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validación: %s", e.Msg)
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// InsufficientStockError la cantidad solicitada rompe el piso de la bodega.
type InsufficientStockError struct {
	WarehouseID string
	ProductID   string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: bodega %s producto %s disponible %s solicitado %s",
		e.WarehouseID, e.ProductID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidStateTransitionError transición no permitida en la máquina de estados de un documento.
type InvalidStateTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s: no se puede pasar de %s a %s", e.Entity, e.ID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error { return ErrInvalidStateTransition }

// AlreadyAnulledError se intentó anular un documento ya anulado.
// También coincide con ErrInvalidStateTransition.
type AlreadyAnulledError struct {
	Entity string
	ID     string
}

func (e *AlreadyAnulledError) Error() string {
	return fmt.Sprintf("%s %s ya está anulado", e.Entity, e.ID)
}

func (e *AlreadyAnulledError) Unwrap() []error {
	return []error{ErrAlreadyAnulled, ErrInvalidStateTransition}
}

// NotFoundError id desconocido de documento, producto o bodega.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConcurrencyConflictError contención de bloqueos o fallo de serialización en la transacción.
// El llamador puede reintentar; el motor no reintenta por sí mismo.
type ConcurrencyConflictError struct {
	Op  string
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: conflicto de concurrencia", e.Op)
	}
	return fmt.Sprintf("%s: conflicto de concurrencia: %v", e.Op, e.Err)
}

func (e *ConcurrencyConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConcurrencyConflict}
	}
	return []error{ErrConcurrencyConflict, e.Err}
}
