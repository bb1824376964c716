package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// PredictFailureBody is returned when every model failed on a valid request.
// It keeps the shape of a prediction so clients can render it the same way.
type PredictFailureBody struct {
	Cluster     int    `json:"cluster"`
	ClusterName string `json:"cluster_name"`
	Description string `json:"description"`
	ModelUsed   string `json:"model_used"`
	Error       string `json:"error"`
	Warning     string `json:"warning"`
	Code        string `json:"code"`
	RequestID   string `json:"request_id,omitempty"`
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorBody{
		Error:     message,
		Code:      code,
		RequestID: c.GetString("request_id"),
	})
}

func respondPredictFailure(c *gin.Context, err *usecase.AllModelsFailedError) {
	c.JSON(http.StatusInternalServerError, PredictFailureBody{
		Cluster:     entity.NoCluster,
		ClusterName: entity.UnknownClusterName,
		Description: err.Description,
		ModelUsed:   usecase.NoModelUsed,
		Error:       usecase.AllModelsFailedMessage,
		Warning:     usecase.NoWorkingModelsWarning,
		Code:        CodeAllModelsFailed,
		RequestID:   c.GetString("request_id"),
	})
}
