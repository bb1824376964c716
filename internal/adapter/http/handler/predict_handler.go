package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// PredictHandler handles ensemble prediction endpoints
type PredictHandler struct {
	usecase usecase.PredictUsecase
	log     *zap.Logger
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(uc usecase.PredictUsecase, log *zap.Logger) *PredictHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PredictHandler{
		usecase: uc,
		log:     log,
	}
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req usecase.PredictInput
	if err := c.ShouldBindJSON(&req); err != nil {
		// missing, empty and non-string descriptions all land here
		HandleInvalidRequest(c, usecase.ErrInvalidDescription.Error())
		return
	}

	output, err := h.usecase.Predict(c.Request.Context(), &req)
	if err != nil {
		var failed *usecase.AllModelsFailedError
		if errors.As(err, &failed) {
			h.log.Error("All models failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.Any("failures", failed.Failures),
			)
		}
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
