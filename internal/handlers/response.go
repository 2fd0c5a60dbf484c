package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared across handlers.
const (
	CodeBadRequest           = "bad_request"
	CodeInvalidConfiguration = "invalid_configuration"
	CodeAuthRequired         = "authorization_required"
	CodeNotFound             = "not_found"
	CodeInternal             = "internal_error"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
