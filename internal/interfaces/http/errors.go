package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/bulk"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// validationMessage arma un mensaje legible con el primer campo inválido.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "campo '" + fe.Field() + "' no cumple '" + fe.Tag() + "'"
	}
	return "datos inválidos"
}

// writeError traduce los errores de dominio a status HTTP. Lo no reconocido es 500 y se registra.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var lineErrs bulk.Errors
	if errors.As(err, &lineErrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(bulkErrorResponse(lineErrs))
	}
	switch {
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "DOCUMENT_TOO_LARGE", Message: err.Error()})
	case errors.Is(err, domain.ErrDocumentFormat):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DOCUMENT_FORMAT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func bulkErrorResponse(lineErrs bulk.Errors) dto.BulkErrorResponse {
	out := dto.BulkErrorResponse{
		Code:    "BULK_INVALID",
		Message: "la carga tiene líneas con problemas; no se guardó ninguna",
		Errors:  make([]dto.BulkLineErrorDTO, 0, len(lineErrs)),
	}
	for _, le := range lineErrs {
		kind := "INVALID_FORMAT"
		if errors.Is(le.Err, domain.ErrNotFound) {
			kind = "NOT_FOUND"
		}
		out.Errors = append(out.Errors, dto.BulkLineErrorDTO{
			Line:   le.Line,
			Code:   le.Code,
			Kind:   kind,
			Reason: le.Reason,
		})
	}
	return out
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
