package entity

import "github.com/shopspring/decimal"

// CatalogEntry es la foto de catálogo y stock de un producto en el momento de la consulta.
// Solo lectura: el motor de asignación no la modifica ni la vuelve a consultar.
type CatalogEntry struct {
	ProductID      string
	Code           string
	Description    string
	AvailableStock int
	Price          decimal.Decimal
}

// DiscountPolicy descuento y comisión por defecto que se aplican a las líneas de un cliente.
type DiscountPolicy struct {
	DiscountPercentage   decimal.Decimal
	CommissionPercentage decimal.Decimal
}
