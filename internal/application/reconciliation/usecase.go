package reconciliation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	domrec "github.com/jhoicas/pedidos-api/internal/domain/reconciliation"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// UseCase confiere un pedido guardado contra la NFe del proveedor.
// No persiste nada: cada comparación se recalcula desde el documento recibido.
type UseCase struct {
	orders          repository.OrderRepository
	parser          DocumentParser
	exporters       map[string]PendencyExporter
	defaultStrategy domrec.Strategy
	log             zerolog.Logger
}

// NewUseCase construye el caso de uso. defaultStrategy se usa cuando la petición no indica una.
func NewUseCase(
	orders repository.OrderRepository,
	parser DocumentParser,
	defaultStrategy domrec.Strategy,
	log zerolog.Logger,
	exporters ...PendencyExporter,
) *UseCase {
	byFormat := make(map[string]PendencyExporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	if defaultStrategy == "" {
		defaultStrategy = domrec.MatchByDescription
	}
	return &UseCase{
		orders:          orders,
		parser:          parser,
		exporters:       byFormat,
		defaultStrategy: defaultStrategy,
		log:             log.With().Str("component", "reconciliation").Logger(),
	}
}

// Compare lee el documento, clasifica cada ítem y arma el reporte de pendencias.
// Un documento ilegible aborta la comparación sin resultado parcial.
func (uc *UseCase) Compare(ctx context.Context, companyID, orderID string, raw []byte, strategy string) (*dto.ReconciliationResponse, error) {
	st, err := uc.strategy(strategy)
	if err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	doc, err := uc.parser.Parse(raw)
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Int("bytes", len(raw)).Msg("nota fiscal ilegible")
		return nil, err
	}

	result := domrec.Match(orderItems(order), doc.Items, st)
	meta := doc.Meta()
	pendency := domrec.BuildPendencyReport(result.Records, meta)

	uc.log.Info().
		Str("order_id", order.ID).
		Str("invoice", doc.Number).
		Str("fingerprint", doc.Fingerprint).
		Str("strategy", string(st)).
		Int("completos", result.Summary.Completos).
		Int("parciais", result.Summary.Parciais).
		Int("pendentes", result.Summary.Pendentes).
		Int("extras", result.Summary.Extras).
		Msg("conferencia de pedido")

	return &dto.ReconciliationResponse{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Strategy:    string(st),
		AccessKey:   doc.AccessKey,
		Invoice:     meta,
		Records:     result.Records,
		Summary:     result.Summary,
		Pendency:    pendency,
	}, nil
}

// ExportPendency genera el reporte de pendencias en el formato pedido (pdf por defecto).
func (uc *UseCase) ExportPendency(ctx context.Context, companyID, orderID string, raw []byte, strategy, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "pdf"
	}
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q no soportado", domain.ErrInvalidInput, format)
	}

	cmp, err := uc.Compare(ctx, companyID, orderID, raw, strategy)
	if err != nil {
		return nil, err
	}
	content, err := exporter.Export(cmp.OrderNumber, cmp.Pendency)
	if err != nil {
		return nil, fmt.Errorf("exportar pendencias: %w", err)
	}
	return &dto.ExportFile{
		FileName:    fmt.Sprintf("pendencias-%s.%s", fileSafe(cmp.OrderNumber, cmp.OrderID), format),
		ContentType: exporter.ContentType(),
		Content:     content,
	}, nil
}

func (uc *UseCase) strategy(s string) (domrec.Strategy, error) {
	if strings.TrimSpace(s) == "" {
		return uc.defaultStrategy, nil
	}
	return domrec.ParseStrategy(s)
}

// orderItems usa la cantidad pedida (no la atendida) y el precio final de la línea.
func orderItems(order *entity.Order) []domrec.OrderItem {
	out := make([]domrec.OrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		out = append(out, domrec.OrderItem{
			Code:        it.Code,
			Description: it.Description,
			Quantity:    decimal.NewFromInt(int64(it.RequestedQuantity)),
			UnitPrice:   it.UnitPrice,
		})
	}
	return out
}

func fileSafe(s, fallback string) string {
	if s == "" {
		s = fallback
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
