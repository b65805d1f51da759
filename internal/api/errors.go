package api

import (
	"net/http"

	"portalcms/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIError is the wire form of a failed request. It always travels inside an
// "error" envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// ErrorResponse writes an error envelope with the given status.
func ErrorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorEnvelope{Error: APIError{Code: code, Message: message}})
}

// AbortWithError aborts the request with an error envelope.
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: APIError{Code: code, Message: message}})
}

// WriteDomainError translates a service error into the response envelope.
// Internal errors are logged with their cause but reach the client with a
// generic message only.
func WriteDomainError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		logrus.WithError(appErr.Unwrap()).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
	}
	c.JSON(appErr.HTTPStatus(), errorEnvelope{Error: APIError{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

// InvalidPayload reports a request body that failed binding or validation.
func InvalidPayload(c *gin.Context, err error) {
	envelope := errorEnvelope{Error: APIError{
		Code:    "INVALID_PAYLOAD",
		Message: "Dados da requisição inválidos",
	}}
	if err != nil {
		envelope.Error.Details = gin.H{"reason": err.Error()}
	}
	c.JSON(http.StatusUnprocessableEntity, envelope)
}
