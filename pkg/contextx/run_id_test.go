package contextx_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"rent_radar/pkg/contextx"
)

func TestWithRunID(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	ctx = contextx.WithRunID(ctx, "run-42")

	contextx.LoggerFromContextOrDefault(ctx).Info("hello")

	rq.Contains(buf.String(), "run-id=run-42")
}

func TestLoggerFromContextOrDefault(t *testing.T) {
	rq := require.New(t)

	rq.Equal(slog.Default(), contextx.LoggerFromContextOrDefault(context.Background()))
}
