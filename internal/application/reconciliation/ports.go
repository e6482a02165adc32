package reconciliation

import (
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	domrec "github.com/jhoicas/pedidos-api/internal/domain/reconciliation"
)

// DocumentParser lee la NFe recibida. Un XML ilegible devuelve domain.ErrDocumentFormat.
type DocumentParser interface {
	Parse(raw []byte) (*entity.InvoiceDocument, error)
}

// PendencyExporter genera el archivo del reporte de pendencias (PDF, XLSX).
type PendencyExporter interface {
	Format() string
	ContentType() string
	Export(orderNumber string, report domrec.PendencyReport) ([]byte, error)
}
