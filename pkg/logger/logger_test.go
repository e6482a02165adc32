package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/pedidos-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConServicioYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "pedidos-api", Output: &buf})

	l.Info().Msg("no debe salir")
	l.Warn().Str("code", "ABC").Msg("stock insuficiente")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "info queda por debajo del nivel")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "pedidos-api", entry["service"])
	assert.Equal(t, "ABC", entry["code"])
}

func TestNop_NoEscribe(t *testing.T) {
	l := logger.Nop()
	assert.NotPanics(t, func() { l.Error().Msg("x") })
}
