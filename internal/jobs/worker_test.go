package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWorker_AppliesDefaults(t *testing.T) {
	w := NewWorker("localhost:6379", 0, nil, nil)

	require.NotNil(t, w)
	require.NotNil(t, w.server)
	require.NotNil(t, w.mux)
}

func TestWorker_StartAndShutdown(t *testing.T) {
	mr := miniredis.RunT(t)

	w := NewWorker(mr.Addr(), 1, map[string]int{"default": 1}, testLogger())
	w.Handle(TypeHeartbeat, HandleHeartbeat(testLogger()))

	require.NoError(t, w.Start())
	assert.NoError(t, w.Shutdown(context.Background()))
}

func TestHandleHeartbeat(t *testing.T) {
	handler := HandleHeartbeat(testLogger())

	err := handler(context.Background(), asynq.NewTask(TypeHeartbeat, nil))
	assert.NoError(t, err)
}
