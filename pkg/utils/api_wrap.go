package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrVideoNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrPackageNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrInvalidAmount):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidSignature):
		RespondError(c, http.StatusBadRequest, "Invalid signature")
	case errors.Is(err, ErrInsufficientCredits):
		RespondError(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ErrDatabaseError):
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
