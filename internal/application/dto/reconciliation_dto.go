package dto

import (
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/reconciliation"
)

// ReconciliationQuery parámetros de POST /api/orders/:id/reconciliation.
type ReconciliationQuery struct {
	Strategy string `query:"strategy" validate:"omitempty,oneof=description supplier_code"`
}

// PendencyExportQuery parámetros de POST /api/orders/:id/reconciliation/pendency.
type PendencyExportQuery struct {
	Strategy string `query:"strategy" validate:"omitempty,oneof=description supplier_code"`
	Format   string `query:"format" validate:"omitempty,oneof=pdf xlsx"`
}

// ReconciliationResponse conferencia de un pedido contra una NFe.
type ReconciliationResponse struct {
	OrderID     string                        `json:"order_id"`
	OrderNumber string                        `json:"order_number"`
	Strategy    string                        `json:"strategy"`
	AccessKey   string                        `json:"access_key,omitempty"`
	Invoice     entity.InvoiceMeta            `json:"invoice"`
	Records     []reconciliation.Record       `json:"records"`
	Summary     reconciliation.Summary        `json:"summary"`
	Pendency    reconciliation.PendencyReport `json:"pendency"`
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
