package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ensemble metrics
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_predictions_total",
			Help: "Successful ensemble predictions by winning model",
		},
		[]string{"model_used"},
	)

	ModelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_model_failures_total",
			Help: "Per-model prediction failures absorbed by the ensemble",
		},
		[]string{"model"},
	)

	LowConfidencePredictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ensemble_low_confidence_predictions_total",
			Help: "Predictions answered with a low confidence warning",
		},
	)

	PredictionRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_request_errors_total",
			Help: "Prediction requests rejected or failed, by reason",
		},
		[]string{"reason"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ensemble_prediction_duration_seconds",
			Help:    "Time spent resolving one ensemble prediction",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Artifact metrics
	ModelsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ensemble_models_loaded",
			Help: "Number of models in the registry",
		},
	)

	VectorizerLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ensemble_vectorizer_loaded",
			Help: "1 when the shared vectorizer is loaded",
		},
	)

	ArtifactLoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_artifact_load_failures_total",
			Help: "Artifacts that failed to load at start-up",
		},
		[]string{"artifact"},
	)

	LabelsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ensemble_cluster_labels_loaded",
			Help: "Number of clusters in the label table",
		},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordArtifacts publishes the outcome of start-up loading
func RecordArtifacts(models int, vectorizer bool, failed []string) {
	ModelsLoaded.Set(float64(models))
	if vectorizer {
		VectorizerLoaded.Set(1)
	} else {
		VectorizerLoaded.Set(0)
	}
	for _, name := range failed {
		ArtifactLoadFailures.WithLabelValues(name).Inc()
	}
}
