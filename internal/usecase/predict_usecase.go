package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/metrics"
)

// Error definitions for prediction usecase
var (
	ErrInvalidDescription    = errors.New("description must be a non-empty string")
	ErrDescriptionTooLong    = errors.New("description is too long")
	ErrVectorizerUnavailable = errors.New("vectorizer not loaded")
	ErrNoModels              = errors.New("no models available for prediction")
	ErrAllModelsFailed       = errors.New("all models failed to predict")
)

// Messages used in ensemble responses
const (
	LowConfidenceWarning   = "Low confidence prediction"
	AllModelsFailedMessage = "All models failed to predict"
	NoWorkingModelsWarning = "No working models available"
	NoModelUsed            = "none"
)

// LowConfidenceThreshold is the confidence below which a warning is attached
const LowConfidenceThreshold = 0.5

// AllModelsFailedError is returned when every model errored on a valid request.
// It carries the fields of the failure response.
type AllModelsFailedError struct {
	Description string
	Failures    map[string]string
}

func (e *AllModelsFailedError) Error() string {
	return ErrAllModelsFailed.Error()
}

// Is makes errors.Is(err, ErrAllModelsFailed) hold
func (e *AllModelsFailedError) Is(target error) bool {
	return target == ErrAllModelsFailed
}

// PredictInput represents the input for a prediction
type PredictInput struct {
	Description string `json:"description" binding:"required"`
}

// PredictOutput represents the ensemble response
type PredictOutput struct {
	Cluster       int                `json:"cluster"`
	ClusterName   string             `json:"cluster_name"`
	Description   string             `json:"description"`
	ModelUsed     string             `json:"model_used"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Warning       string             `json:"warning,omitempty"`
}

// HealthOutput represents service health
type HealthOutput struct {
	Status           string   `json:"status"`
	ModelsLoaded     []string `json:"models_loaded"`
	VectorizerLoaded bool     `json:"vectorizer_loaded"`
}

// Health statuses
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// ClusterListOutput represents a page of the label table
type ClusterListOutput struct {
	Clusters []entity.ClusterName `json:"clusters"`
	Total    int                  `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	HasMore  bool                 `json:"has_more"`
}

// PredictUsecase defines the interface for ensemble prediction
type PredictUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)
	Health(ctx context.Context) *HealthOutput
	Ready(ctx context.Context) error
	ListClusters(ctx context.Context, limit, offset int) *ClusterListOutput
}

// Options tunes request validation
type Options struct {
	// MaxDescriptionLength limits descriptions in runes; zero disables the check
	MaxDescriptionLength int
}

type predictUsecase struct {
	registry *service.Registry
	labels   *entity.LabelTable
	opts     Options
	log      *zap.Logger
}

// NewPredictUsecase creates a new prediction usecase over an immutable registry
func NewPredictUsecase(registry *service.Registry, labels *entity.LabelTable, opts Options, log *zap.Logger) PredictUsecase {
	if registry == nil {
		registry = service.NewRegistry(nil, nil)
	}
	if labels == nil {
		labels = entity.EmptyLabelTable()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &predictUsecase{
		registry: registry,
		labels:   labels,
		opts:     opts,
		log:      log,
	}
}

// Normalize lowercases and trims a description. Applying it twice changes nothing.
func Normalize(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}

func (u *predictUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	start := time.Now()
	defer func() { metrics.PredictionDuration.Observe(time.Since(start).Seconds()) }()

	// whitespace-only text is still a non-empty string; it normalizes to "" and is classified
	if input == nil || input.Description == "" {
		metrics.PredictionRequestErrors.WithLabelValues("invalid_description").Inc()
		return nil, ErrInvalidDescription
	}
	if limit := u.opts.MaxDescriptionLength; limit > 0 && utf8.RuneCountInString(input.Description) > limit {
		metrics.PredictionRequestErrors.WithLabelValues("description_too_long").Inc()
		return nil, fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooLong, limit)
	}
	vectorizer := u.registry.Vectorizer()
	if vectorizer == nil {
		metrics.PredictionRequestErrors.WithLabelValues("vectorizer_unavailable").Inc()
		return nil, ErrVectorizerUnavailable
	}
	models := u.registry.Models()
	if len(models) == 0 {
		metrics.PredictionRequestErrors.WithLabelValues("no_models").Inc()
		return nil, ErrNoModels
	}

	text := Normalize(input.Description)
	features, vecErr := transform(vectorizer, text)

	var (
		best      *entity.PredictionResult
		bestModel string
		failures  = make(map[string]string)
	)
	for _, m := range models {
		var result *entity.PredictionResult
		if vecErr != nil {
			result = entity.NewFailedPrediction(fmt.Errorf("vectorization failed: %w", vecErr))
		} else {
			result = predictFeatures(m, features)
		}

		if result.Failed() {
			failures[m.Name] = result.Error
			metrics.ModelFailures.WithLabelValues(m.Name).Inc()
			u.log.Warn("Model prediction failed",
				zap.String("model", m.Name),
				zap.String("error", result.Error),
			)
			continue
		}
		// strict comparison keeps the first model on ties
		if best == nil || result.Confidence > best.Confidence {
			best = result
			bestModel = m.Name
		}
	}

	if best == nil {
		metrics.PredictionRequestErrors.WithLabelValues("all_models_failed").Inc()
		return nil, &AllModelsFailedError{Description: input.Description, Failures: failures}
	}

	out := &PredictOutput{
		Cluster:       best.Cluster,
		ClusterName:   u.labels.Name(best.Cluster),
		Description:   input.Description,
		ModelUsed:     bestModel,
		Confidence:    best.Confidence,
		Probabilities: best.Probabilities,
	}
	if best.Confidence < LowConfidenceThreshold {
		out.Warning = LowConfidenceWarning
		metrics.LowConfidencePredictions.Inc()
	}
	metrics.Predictions.WithLabelValues(bestModel).Inc()

	u.log.Debug("Ensemble prediction",
		zap.String("model_used", bestModel),
		zap.Int("cluster", out.Cluster),
		zap.Float64("confidence", out.Confidence),
		zap.Int("failed_models", len(failures)),
	)

	return out, nil
}

func (u *predictUsecase) Health(_ context.Context) *HealthOutput {
	status := StatusError
	if u.registry.Healthy() {
		status = StatusOK
	}
	return &HealthOutput{
		Status:           status,
		ModelsLoaded:     u.registry.ModelNames(),
		VectorizerLoaded: u.registry.HasVectorizer(),
	}
}

func (u *predictUsecase) Ready(_ context.Context) error {
	if !u.registry.HasVectorizer() {
		return ErrVectorizerUnavailable
	}
	if !u.registry.Healthy() {
		return ErrNoModels
	}
	return nil
}

func (u *predictUsecase) ListClusters(_ context.Context, limit, offset int) *ClusterListOutput {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	all := u.labels.Clusters()
	total := len(all)
	page := []entity.ClusterName{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = all[offset:end]
	}

	return &ClusterListOutput{
		Clusters: page,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		HasMore:  offset+limit < total,
	}
}
