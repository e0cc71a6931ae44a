package entity

import "github.com/shopspring/decimal"

// Scale decimales que persisten cantidades y costos (NUMERIC(20,6)).
const Scale int32 = 6

// FitsScale true si d no pierde dígitos al guardarse con Scale decimales.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}
