// Package bulk interpreta pedidos escritos como texto libre, una línea por producto:
//
//	CODIGO <sep>+ CANTIDAD?
//
// donde <sep> es espacio, coma, guion o punto y la cantidad por defecto es 1.
// Este paquete solo hace la pasada de formato; la existencia de los códigos se
// valida aparte con una única consulta al catálogo.
package bulk

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/jhoicas/pedidos-api/internal/domain"
)

// MaxLines máximo de líneas no vacías por carga.
const MaxLines = 50

var (
	codeCharset = regexp.MustCompile(`[^A-Za-z0-9/\-]+`)
	// CODIGO.CANTIDAD sin espacios: el punto no pertenece al alfabeto del código.
	dottedQuantity = regexp.MustCompile(`^(.*[^.])\.+([0-9]+)$`)
	digitsOnly     = regexp.MustCompile(`^[0-9]+$`)
)

// Request una línea de pedido válida en formato, en el orden del texto.
type Request struct {
	Line     int
	Code     string
	Quantity int
}

// ParseResult líneas válidas en formato y todos los problemas encontrados.
type ParseResult struct {
	Requests []Request
	Errors   Errors
}

// Codes devuelve los códigos distintos de las líneas válidas, en orden de aparición.
func (r ParseResult) Codes() []string {
	seen := make(map[string]struct{}, len(r.Requests))
	codes := make([]string, 0, len(r.Requests))
	for _, req := range r.Requests {
		if _, ok := seen[req.Code]; ok {
			continue
		}
		seen[req.Code] = struct{}{}
		codes = append(codes, req.Code)
	}
	return codes
}

// Parse recorre todas las líneas sin detenerse en el primer error.
// Los códigos repetidos se mantienen como líneas separadas.
func Parse(text string) ParseResult {
	var res ParseResult
	nonBlank := 0
	for i, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		nonBlank++
		req, lerr := parseLine(i+1, raw)
		if lerr != nil {
			res.Errors = append(res.Errors, lerr)
			continue
		}
		res.Requests = append(res.Requests, req)
	}
	if nonBlank > MaxLines {
		res.Errors = append(Errors{{
			Err:    domain.ErrInvalidInput,
			Reason: "máximo " + strconv.Itoa(MaxLines) + " líneas por carga, recibidas " + strconv.Itoa(nonBlank),
		}}, res.Errors...)
	}
	return res
}

func parseLine(n int, raw string) (Request, *LineError) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	// Campos formados solo por separadores ("ABC - 5").
	kept := fields[:0]
	for _, f := range fields {
		if strings.Trim(f, "-.") != "" {
			kept = append(kept, f)
		}
	}
	fields = kept

	var codePart, qtyPart string
	switch len(fields) {
	case 0:
		return Request{}, &LineError{Line: n, Err: domain.ErrInvalidInput, Reason: "código vacío"}
	case 1:
		codePart = fields[0]
		if m := dottedQuantity.FindStringSubmatch(codePart); m != nil {
			codePart, qtyPart = m[1], m[2]
		}
	default:
		codePart = strings.Join(fields[:len(fields)-1], "")
		qtyPart = fields[len(fields)-1]
	}

	code := CleanCode(strings.TrimRight(codePart, "-."))
	if code == "" {
		return Request{}, &LineError{Line: n, Err: domain.ErrInvalidInput, Reason: "código vacío tras la limpieza"}
	}

	qty := 1
	if qtyPart != "" {
		if !digitsOnly.MatchString(qtyPart) {
			return Request{}, &LineError{Line: n, Code: code, Err: domain.ErrInvalidInput, Reason: "cantidad debe ser un entero positivo: " + qtyPart}
		}
		v, err := strconv.Atoi(qtyPart)
		if err != nil || v <= 0 {
			return Request{}, &LineError{Line: n, Code: code, Err: domain.ErrInvalidInput, Reason: "cantidad debe ser un entero positivo: " + qtyPart}
		}
		qty = v
	}
	return Request{Line: n, Code: code, Quantity: qty}, nil
}

// CleanCode deja solo [A-Za-z0-9/-] y pasa a mayúsculas.
func CleanCode(s string) string {
	return strings.ToUpper(codeCharset.ReplaceAllString(s, ""))
}
