package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, observed := observer.New(zapcore.InfoLevel)
	original := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(original) })
	return observed
}

func TestInit(t *testing.T) {
	original := L()
	defer Set(original)

	Init("production")
	assert.NotNil(t, L())

	Init("development")
	assert.NotNil(t, L())
}

func TestL_LazyInit(t *testing.T) {
	original := L()
	defer Set(original)

	Set(nil)
	t.Setenv("APP_ENV", "test")

	assert.NotNil(t, L())
}

func TestRequestIDFrom(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFrom(ctx))
	assert.Equal(t, "", RequestIDFrom(context.Background()))
}

func TestFromCtx(t *testing.T) {
	observed := observe(t)

	t.Run("adds request and user ids", func(t *testing.T) {
		ctx := WithUserID(WithRequestID(context.Background(), "req-abc"), 7)
		FromCtx(ctx).Info("with ids")

		logs := observed.TakeAll()
		require.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-abc", fields["request_id"])
		assert.Equal(t, uint64(7), fields["user_id"])
	})

	t.Run("bare context", func(t *testing.T) {
		FromCtx(context.Background()).Info("plain")

		logs := observed.TakeAll()
		require.Len(t, logs, 1)
		_, ok := logs[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, Sync)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("generates id when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "given")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "given", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "given", seen)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	observed := observe(t)

	ok := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/v1/order/finish/1/1", nil))

	boom := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	boom.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	logs := observed.TakeAll()
	require.Len(t, logs, 2)
	assert.Equal(t, "request handled", logs[0].Message)
	assert.Equal(t, int64(http.StatusAccepted), logs[0].ContextMap()["status"])
	assert.Equal(t, "/api/v1/order/finish/1/1", logs[0].ContextMap()["path"])
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}
