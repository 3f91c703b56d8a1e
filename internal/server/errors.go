package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
	flowruledomain "github.com/sitebooks/sitebooks/internal/flowrule/domain"
	projectdomain "github.com/sitebooks/sitebooks/internal/project/domain"
)

var ErrNotFound = errors.New("not_found")

// APIError is the error envelope returned to clients.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

func newValidationError(field, code, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

func invalidRequestError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body or query could not be parsed",
	}
}

// AbortWithError maps domain errors onto HTTP statuses and writes the
// error envelope.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, flowruledomain.ErrNotFound),
		errors.Is(err, flowruledomain.ErrStatusNotFound),
		errors.Is(err, flowruledomain.ErrCategoryNotFound),
		errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, projectdomain.ErrStatusNotFound):
		status = http.StatusNotFound
	case errors.Is(err, expensedomain.ErrInvalidTableKind),
		errors.Is(err, flowruledomain.ErrInvalidAction),
		errors.Is(err, flowruledomain.ErrInvalidID),
		errors.Is(err, projectdomain.ErrInvalidID):
		status = http.StatusBadRequest
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    err.Error(),
		"message": err.Error(),
	}})
}
