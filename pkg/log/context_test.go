package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	attached := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()

	ctx := WithLogger(context.Background(), attached)
	logger := Ctx(ctx)
	logger.Info().Msg("hello")

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	assert.NotPanics(t, func() {
		logger := Ctx(context.Background())
		logger.Debug().Msg("no logger attached")
	})
	var nilCtx context.Context
	assert.NotPanics(t, func() {
		logger := Ctx(nilCtx)
		logger.Debug().Msg("nil context")
	})
}
