package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"sbt-gateway-backend/internal/common/errors"
)

// Envelope is the JSON body returned for every successful request.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorEnvelope is the JSON body returned for every failed request.
type ErrorEnvelope struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id,omitempty"`
}

// Success writes a success envelope with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
