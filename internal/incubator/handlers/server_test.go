package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestServer_StartStop(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	s := NewServer(0, handler, []string{"http://localhost:3000"}, logger)
	require.NoError(t, s.Start())
	s.Stop()

	_, open := <-s.Errors()
	assert.False(t, open, "error channel is closed after a clean shutdown")
}

func TestServer_StartFailsOnInvalidPort(t *testing.T) {
	s := NewServer(70000, http.NotFoundHandler(), nil, zaptest.NewLogger(t))
	assert.Error(t, s.Start())
}
