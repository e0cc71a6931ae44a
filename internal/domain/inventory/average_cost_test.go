package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValuationBlend(t *testing.T) {
	tests := []struct {
		name                    string
		stock, cost, qtyIn, cIn string
		want                    string
	}{
		{"primera entrada toma su propio costo", "0", "0", "100", "10", "10"},
		{"mezcla ponderada", "100", "10", "50", "16", "12"},
		{"entrada a costo cero diluye el promedio", "10", "20", "10", "0", "10"},
		{"mismo costo no cambia el promedio", "90", "12", "60", "12", "12"},
		{"saldo negativo previo", "-10", "5", "30", "8", "9.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := inv.Valuation{Balance: d(tt.stock), AverageCost: d(tt.cost)}
			got := v.Blend(d(tt.qtyIn), d(tt.cIn))
			assert.True(t, d(tt.want).Equal(got), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestValuationBlend_DenominadorCero(t *testing.T) {
	v := inv.Valuation{Balance: d("-5"), AverageCost: d("7.25")}
	assert.True(t, d("7.25").Equal(v.Blend(d("5"), d("100"))))
}
