package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceDocument es la nota fiscal (NFe) recibida del proveedor para conferir un pedido.
// Los campos de cabecera ausentes quedan vacíos; el parser no falla por ellos.
type InvoiceDocument struct {
	Number         string
	Series         string
	AccessKey      string    // chave de acesso (44 dígitos) si viene en el documento
	EmittedAt      time.Time // cero si dhEmi/dEmi falta o no se pudo interpretar
	EmittedAtRaw   string
	DeclaredTotal  decimal.Decimal
	IssuerName     string
	IssuerTaxID    string
	RecipientName  string
	RecipientTaxID string
	Fingerprint    string // SHA-256 del XML canonicalizado (C14N)
	Items          []InvoiceLineItem
}

// InvoiceLineItem línea de producto (det/prod) de la nota fiscal.
// SupplierCode es el cProd estructurado; MatchCode se deriva de la descripción.
type InvoiceLineItem struct {
	SupplierCode string
	Description  string
	MatchCode    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
}

// InvoiceMeta resumen de cabecera que acompaña a los reportes de pendencias.
type InvoiceMeta struct {
	Number        string          `json:"number"`
	Series        string          `json:"series,omitempty"`
	EmittedAt     string          `json:"emitted_at,omitempty"`
	DeclaredTotal decimal.Decimal `json:"declared_total"`
	IssuerName    string          `json:"issuer_name,omitempty"`
	IssuerTaxID   string          `json:"issuer_tax_id,omitempty"`
	Fingerprint   string          `json:"fingerprint,omitempty"`
}

// Meta devuelve la cabecera resumida del documento.
func (d *InvoiceDocument) Meta() InvoiceMeta {
	emitted := d.EmittedAtRaw
	if !d.EmittedAt.IsZero() {
		emitted = d.EmittedAt.Format(time.RFC3339)
	}
	return InvoiceMeta{
		Number:        d.Number,
		Series:        d.Series,
		EmittedAt:     emitted,
		DeclaredTotal: d.DeclaredTotal,
		IssuerName:    d.IssuerName,
		IssuerTaxID:   d.IssuerTaxID,
		Fingerprint:   d.Fingerprint,
	}
}
