package inventory

import "github.com/shopspring/decimal"

// Blend costo promedio ponderado tras una entrada de qty unidades a unitCost:
//
//	(saldo*promedio + qty*unitCost) / (saldo + qty)
//
// Con denominador cero (saldo negativo que la entrada deja en cero) se conserva el promedio.
func (v Valuation) Blend(qty, unitCost decimal.Decimal) decimal.Decimal {
	units := v.Balance.Add(qty)
	if units.IsZero() {
		return v.AverageCost
	}
	return v.Value().Add(qty.Mul(unitCost)).Div(units)
}
