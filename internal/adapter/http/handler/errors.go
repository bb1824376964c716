package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// Error codes returned in the "code" field
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeVectorizerUnavailable = "VECTORIZER_UNAVAILABLE"
	CodeNoModels              = "NO_MODELS"
	CodeAllModelsFailed       = "ALL_MODELS_FAILED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// Input problems are 400; missing artifacts and failed models are 500.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrInvalidDescription):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeInvalidRequest,
			Message:    usecase.ErrInvalidDescription.Error(),
		}
	case errors.Is(err, usecase.ErrDescriptionTooLong):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeInvalidRequest,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrVectorizerUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeVectorizerUnavailable,
			Message:    usecase.ErrVectorizerUnavailable.Error(),
		}
	case errors.Is(err, usecase.ErrNoModels):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeNoModels,
			Message:    usecase.ErrNoModels.Error(),
		}
	case errors.Is(err, usecase.ErrAllModelsFailed):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeAllModelsFailed,
			Message:    usecase.AllModelsFailedMessage,
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// All-models-failed errors get the full failure body so callers still see
// the echoed description.
func HandleUsecaseError(c *gin.Context, err error) {
	var failed *usecase.AllModelsFailedError
	if errors.As(err, &failed) {
		respondPredictFailure(c, failed)
		return
	}
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, message)
}
