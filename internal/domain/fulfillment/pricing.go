package fulfillment

import (
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceInput datos para calcular el precio de una línea.
// Quantity es la cantidad atendida: lo pendiente nunca suma al total.
type PriceInput struct {
	OriginalUnitPrice    decimal.Decimal
	DiscountPercentage   decimal.Decimal
	CommissionPercentage decimal.Decimal
	Quantity             int
	ManualUnitPrice      *decimal.Decimal // si viene, prevalece sobre el descuento
}

// PriceResult montos calculados para la línea.
type PriceResult struct {
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal // el informado o el implícito del precio manual
	LineTotal          decimal.Decimal
	DiscountAmount     decimal.Decimal
	CommissionAmount   decimal.Decimal
}

// round2 redondea a 2 decimales (mitad lejos de cero).
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalculatePrice aplica descuento o precio manual y calcula total, descuento y comisión.
// El redondeo se aplica en cada paso (precio unitario, luego totales), no una sola vez al final.
//
//	sin precio manual: unit = round2(original × (1 − d/100))
//	con precio manual: unit = manual; d = round2((original − manual)/original × 100), 0 si manual ≥ original
//	total = round2(q × unit); descuento = max(0, round2(q × (original − unit)))
//	comisión = round2(total × c/100)
func CalculatePrice(in PriceInput) (PriceResult, error) {
	if in.OriginalUnitPrice.IsNegative() {
		return PriceResult{}, fmt.Errorf("%w: precio original negativo", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return PriceResult{}, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	if err := checkPercentage("descuento", in.DiscountPercentage); err != nil {
		return PriceResult{}, err
	}
	if err := checkPercentage("comisión", in.CommissionPercentage); err != nil {
		return PriceResult{}, err
	}

	var unit, discountPct decimal.Decimal
	if in.ManualUnitPrice != nil {
		if in.ManualUnitPrice.IsNegative() {
			return PriceResult{}, fmt.Errorf("%w: precio manual negativo", domain.ErrInvalidInput)
		}
		unit = *in.ManualUnitPrice
		discountPct = ImpliedDiscount(in.OriginalUnitPrice, unit)
	} else {
		discountPct = in.DiscountPercentage
		factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
		unit = round2(in.OriginalUnitPrice.Mul(factor))
	}

	qty := decimal.NewFromInt(int64(in.Quantity))
	lineTotal := round2(qty.Mul(unit))
	discountAmount := round2(qty.Mul(in.OriginalUnitPrice.Sub(unit)))
	if discountAmount.IsNegative() {
		discountAmount = decimal.Zero
	}
	commission := round2(lineTotal.Mul(in.CommissionPercentage).Div(hundred))

	return PriceResult{
		UnitPrice:          unit,
		DiscountPercentage: discountPct,
		LineTotal:          lineTotal,
		DiscountAmount:     discountAmount,
		CommissionAmount:   commission,
	}, nil
}

// ImpliedDiscount porcentaje de descuento equivalente a un precio manual.
// Cero si el precio manual no es menor que el original o si el original es cero.
func ImpliedDiscount(original, manual decimal.Decimal) decimal.Decimal {
	if !original.IsPositive() || manual.GreaterThanOrEqual(original) {
		return decimal.Zero
	}
	return round2(original.Sub(manual).Div(original).Mul(hundred))
}

func checkPercentage(name string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s fuera de rango 0-100 (%s)", domain.ErrInvalidInput, name, p.String())
	}
	return nil
}
