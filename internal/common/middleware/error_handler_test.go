package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/response"
)

func newTestRouter(includeDetails bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.Use(ErrorHandler(includeDetails))
	return router
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: errors.NewValidationError("field", "bad"), wantStatus: http.StatusBadRequest},
		{name: "wallet mismatch", err: errors.NewWalletMismatch(), wantStatus: http.StatusBadRequest},
		{name: "user not found", err: errors.NewUserNotFound("u"), wantStatus: http.StatusNotFound},
		{name: "conflict", err: errors.New(errors.ErrCodeConflict, "duplicate"), wantStatus: http.StatusConflict},
		{name: "relayer rejected", err: errors.NewRelayerRejected("no", -1, "bad proof"), wantStatus: http.StatusBadGateway},
		{name: "relay unreachable", err: errors.NewServiceUnavailable(assert.AnError), wantStatus: http.StatusServiceUnavailable},
		{name: "database", err: errors.Wrap(assert.AnError, errors.ErrCodeDatabaseError, "insert failed"), wantStatus: http.StatusInternalServerError},
		{name: "untyped", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(false)
			router.GET("/boom", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			w := doRequest(router, http.MethodGet, "/boom")
			assert.Equal(t, tt.wantStatus, w.Code)

			var envelope response.ErrorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			assert.NotEmpty(t, envelope.RequestID)
		})
	}
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	router := newTestRouter(false)
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := doRequest(router, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestErrorHandlerStripsDetailsInRelease(t *testing.T) {
	router := newTestRouter(false)
	router.GET("/bad", func(c *gin.Context) {
		_ = c.Error(errors.NewValidationError("walletAddress", "invalid format"))
	})

	w := doRequest(router, http.MethodGet, "/bad")

	var envelope response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Nil(t, envelope.Error.Details)
}

func TestRequestIDEchoed(t *testing.T) {
	router := newTestRouter(false)
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	router.ServeHTTP(w, req)

	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestRequestIDGenerated(t *testing.T) {
	router := newTestRouter(false)
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := doRequest(router, http.MethodGet, "/ok")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
