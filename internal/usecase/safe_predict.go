package usecase

import (
	"errors"
	"fmt"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
)

var errNoVectorizer = errors.New("vectorizer is nil")

// SafePredict runs one model on a text. It never fails: vectorizer errors,
// model errors and panics all come back as a failed PredictionResult.
func SafePredict(model service.Model, vectorizer service.Vectorizer, text string) *entity.PredictionResult {
	features, err := transform(vectorizer, text)
	if err != nil {
		return entity.NewFailedPrediction(fmt.Errorf("vectorization failed: %w", err))
	}
	return predictFeatures(model, features)
}

func transform(vectorizer service.Vectorizer, text string) (features service.Features, err error) {
	if vectorizer == nil {
		return service.Features{}, errNoVectorizer
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vectorizer panicked: %v", r)
		}
	}()
	return vectorizer.Transform(text)
}

// predictFeatures runs one model on already vectorized input
func predictFeatures(model service.Model, features service.Features) (result *entity.PredictionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = entity.NewFailedPrediction(fmt.Errorf("model %s panicked: %v", model.Name, r))
		}
	}()

	clf := model.Classifier()
	if clf == nil {
		return entity.NewFailedPrediction(fmt.Errorf("model %s has no classifier", model.Name))
	}

	cluster, err := clf.Predict(features)
	if err != nil {
		return entity.NewFailedPrediction(fmt.Errorf("prediction failed: %w", err))
	}

	proba := model.Probabilistic()
	if proba == nil {
		return entity.NewHardPrediction(cluster)
	}

	p, err := proba.PredictProba(features)
	if err != nil {
		return entity.NewFailedPrediction(fmt.Errorf("probability estimation failed: %w", err))
	}
	if len(p) == 0 {
		return entity.NewFailedPrediction(fmt.Errorf("model %s returned no probabilities", model.Name))
	}
	for i, v := range p {
		if !validProbability(v) {
			return entity.NewFailedPrediction(fmt.Errorf("model %s returned invalid probability %v for %s", model.Name, v, entity.ClusterKey(i)))
		}
	}
	return entity.NewProbabilisticPrediction(cluster, p)
}

// validProbability is false for NaN, infinities and values outside [0,1]
func validProbability(p float64) bool {
	return p >= 0 && p <= 1
}
