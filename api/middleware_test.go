package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/loan-engine/store/memory"
)

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewHandler(memory.New(), zap.NewNop())
	router := NewRouter(h, RouterOptions{Logger: zap.New(core)})

	req := httptest.NewRequest(http.MethodPost, "/api/loans/calculate", strings.NewReader(`{"principal": -1}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)

	fields := e.ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/loans/calculate", fields["path"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRequestLogger_WrapsPlainHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, http.StatusTeapot, logs.All()[0].ContextMap()["status"])
}
