package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ressKim-io/topic-ensemble/internal/adapter/http/handler"
	"github.com/ressKim-io/topic-ensemble/internal/adapter/http/middleware"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/bootstrap"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/config"
	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// Setup creates and configures the Gin router
func Setup(app *bootstrap.App, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins...))
	router.Use(middleware.Metrics())

	// Initialize usecases
	predictUC := usecase.NewPredictUsecase(app.Registry, app.Labels, usecase.Options{
		MaxDescriptionLength: cfg.Predict.MaxDescriptionLength,
	}, logger)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(predictUC, app.DB, app.Redis)
	predictHandler := handler.NewPredictHandler(predictUC, logger)
	clusterHandler := handler.NewClusterHandler(predictUC)

	// Health endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Prediction routes; /pred is the path the dashboard was built against
	router.POST("/predict", predictHandler.Predict)
	router.POST("/pred", predictHandler.Predict)
	router.GET("/clusters", clusterHandler.ListClusters)

	return router
}
