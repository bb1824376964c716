package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// ClusterHandler serves the cluster label table
type ClusterHandler struct {
	usecase usecase.PredictUsecase
}

// NewClusterHandler creates a new cluster handler
func NewClusterHandler(uc usecase.PredictUsecase) *ClusterHandler {
	return &ClusterHandler{usecase: uc}
}

// ListClusters handles GET /clusters
func (h *ClusterHandler) ListClusters(c *gin.Context) {
	pagination := ParsePagination(c)
	output := h.usecase.ListClusters(c.Request.Context(), pagination.Limit, pagination.Offset)
	respondSuccess(c, http.StatusOK, output)
}
