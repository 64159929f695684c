package handlers

import (
	"errors"
	"net/http"

	"imbalance-report/internal/api/models"
	"imbalance-report/internal/data"
	"imbalance-report/internal/model"
	"imbalance-report/internal/store"

	"github.com/gin-gonic/gin"
)

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeError maps a pipeline error onto a status code and error body.
// It returns the error kind for metrics.
func writeError(c *gin.Context, err error) string {
	// Market data source errors
	var apiErr *data.APIError
	if errors.As(err, &apiErr) {
		statusCode := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusTooManyRequests {
			statusCode = http.StatusTooManyRequests
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    apiErr.Code,
				Message: err.Error(),
				Details: map[string]interface{}{
					"status_code": apiErr.StatusCode,
					"retry_after": apiErr.RetryAfter,
				},
			},
		})
		return "UPSTREAM_" + apiErr.Code
	}

	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: err.Error(),
			},
		})
		return "NOT_FOUND"
	}

	kind := model.ErrorKind(err)
	status := http.StatusInternalServerError
	detail := models.ErrorDetail{Code: kind, Message: err.Error()}
	switch kind {
	case "MALFORMED_RECORD", "MISSING_FIELD", "EMPTY_SERIES":
		status = http.StatusUnprocessableEntity
	}
	var recErr *model.RecordError
	if errors.As(err, &recErr) {
		detail.Details = map[string]interface{}{
			"index": recErr.Index,
			"field": recErr.Field,
		}
	}
	c.JSON(status, models.ErrorResponse{Error: detail})
	return kind
}
