package http

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/rs/zerolog"
)

// ReconciliationService conferencia de pedido contra NFe (lo implementa *reconciliation.UseCase).
type ReconciliationService interface {
	Compare(ctx context.Context, companyID, orderID string, raw []byte, strategy string) (*dto.ReconciliationResponse, error)
	ExportPendency(ctx context.Context, companyID, orderID string, raw []byte, strategy, format string) (*dto.ExportFile, error)
}

// ReconciliationHandler recibe el XML de la NFe como cuerpo crudo o como campo multipart "file".
type ReconciliationHandler struct {
	uc      ReconciliationService
	maxSize int64
	log     zerolog.Logger
}

// NewReconciliationHandler construye el handler. maxSize limita la lectura del archivo multipart.
func NewReconciliationHandler(uc ReconciliationService, maxSize int64, log zerolog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc, maxSize: maxSize, log: log}
}

// Compare POST /api/orders/:id/reconciliation?strategy=description|supplier_code
func (h *ReconciliationHandler) Compare(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.ReconciliationQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	raw, err := h.document(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Compare(c.UserContext(), companyID, c.Params("id"), raw, q.Strategy)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportPendency descarga el reporte de pendencias.
// POST /api/orders/:id/reconciliation/pendency?format=pdf|xlsx&strategy=...
func (h *ReconciliationHandler) ExportPendency(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.PendencyExportQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	raw, err := h.document(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	file, err := h.uc.ExportPendency(c.UserContext(), companyID, c.Params("id"), raw, q.Strategy, q.Format)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Attachment(file.FileName)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Content)
}

// document obtiene los bytes del XML. El tamaño lo vuelve a validar el parser.
func (h *ReconciliationHandler) document(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return c.Body(), nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: campo multipart 'file' requerido", domain.ErrInvalidInput)
	}
	if h.maxSize > 0 && fh.Size > h.maxSize {
		return nil, fmt.Errorf("%w: %w (%d bytes, máximo %d)", domain.ErrDocumentFormat, domain.ErrDocumentTooLarge, fh.Size, h.maxSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir archivo multipart: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
