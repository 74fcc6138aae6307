package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiruta/logistica-api/pkg/logger"
)

// Un sublogger de componente etiqueta cada línea con su origen.
func TestComponent_EtiquetaElOrigen(t *testing.T) {
	log := logger.New(logger.Config{Env: "production", Level: "info"})

	var buf bytes.Buffer
	zl := log.Component("stock").Zerolog().Output(&buf)
	zl.Info().Msg("reserva aplicada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stock", line["component"])
	assert.Equal(t, "reserva aplicada", line["message"])
}

// Los niveles por debajo del configurado no se emiten.
func TestNew_FiltraPorNivel(t *testing.T) {
	log := logger.New(logger.Config{Env: "production", Level: "warn"})

	var buf bytes.Buffer
	zl := log.Zerolog().Output(&buf)
	zl.Info().Msg("no debería salir")
	assert.Zero(t, buf.Len())

	zl.Warn().Msg("sí sale")
	assert.NotZero(t, buf.Len())
}
