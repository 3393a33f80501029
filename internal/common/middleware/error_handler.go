package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/logger"
	"sbt-gateway-backend/internal/common/response"
)

// RequestID attaches a request id to the context and the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler recovers from panics and converts errors recorded on the gin
// context into the JSON error envelope. Handlers report failures with
// c.Error(err) and leave status mapping to this middleware.
func ErrorHandler(includeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error().
					Str("request_id", getRequestID(c)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", recovered).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				appErr := errors.New(errors.ErrCodeInternal, "internal server error")
				if includeDetails {
					appErr.WithDetail("panic", fmt.Sprintf("%v", recovered))
				}
				sendError(c, appErr)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "internal server error")
		}
		if !includeDetails {
			appErr.Details = nil
		}
		sendError(c, appErr)
	}
}

func sendError(c *gin.Context, appErr *errors.AppError) {
	statusCode := httpStatusFor(appErr)

	event := logger.Warn()
	if statusCode >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Err(appErr).
		Msg("Request failed")

	c.AbortWithStatusJSON(statusCode, response.ErrorEnvelope{
		Success:   false,
		Error:     appErr,
		Message:   appErr.Message,
		Timestamp: time.Now().UTC(),
		RequestID: getRequestID(c),
	})
}

func httpStatusFor(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest, errors.ErrCodeWalletMismatch:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound, errors.ErrCodeTokenNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeRelayerRejected:
		return http.StatusBadGateway
	case errors.ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
