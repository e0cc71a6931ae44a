package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product datos maestros que consume el motor: costo de respaldo y stock mínimo.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Cost         decimal.Decimal // costo por defecto cuando no hay historial
	MinimumStock decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
