package bulk

import (
	"fmt"
	"strings"
)

// LineError problema asociado a una línea del texto (Line 0 = el texto completo).
// Err es domain.ErrInvalidInput (formato) o domain.ErrNotFound (código inexistente).
type LineError struct {
	Line   int
	Code   string
	Reason string
	Err    error
}

func (e *LineError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Err, e.Reason)
	}
	if e.Code != "" {
		return fmt.Sprintf("línea %d (%s): %s: %s", e.Line, e.Code, e.Err, e.Reason)
	}
	return fmt.Sprintf("línea %d: %s: %s", e.Line, e.Err, e.Reason)
}

func (e *LineError) Unwrap() error { return e.Err }

// Errors lista de problemas de una carga masiva. Se devuelve completa para que el
// llamador muestre todo de una vez; errors.Is funciona contra cada elemento.
type Errors []*LineError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, le := range e {
		msgs = append(msgs, le.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, le := range e {
		out = append(out, le)
	}
	return out
}
