package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridflow/pkg/taskflow"
)

func TestHealthHandler(t *testing.T) {
	flow := taskflow.New(3)
	defer flow.Close()

	a := &App{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		flow:   flow,
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK workers=3\n", rec.Body.String())
}
