package entity

import "fmt"

// Confidence reported for models that only produce a hard label
const DefaultConfidence = 0.7

// PredictionResult is the outcome of running one model on one text
type PredictionResult struct {
	Cluster       int                `json:"cluster"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Error         string             `json:"error,omitempty"`
}

// Failed reports whether the model could not produce a prediction
func (r *PredictionResult) Failed() bool {
	return r.Error != ""
}

// NewFailedPrediction builds the result shape used for every per-model failure
func NewFailedPrediction(err error) *PredictionResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &PredictionResult{
		Cluster:       -1,
		Confidence:    0.0,
		Probabilities: map[string]float64{},
		Error:         msg,
	}
}

// NewHardPrediction builds a result for a model without probability estimates
func NewHardPrediction(cluster int) *PredictionResult {
	return &PredictionResult{
		Cluster:       cluster,
		Confidence:    DefaultConfidence,
		Probabilities: map[string]float64{ClusterKey(cluster): 1.0},
	}
}

// NewProbabilisticPrediction builds a result from a full probability vector.
// Confidence is the largest probability.
func NewProbabilisticPrediction(cluster int, proba []float64) *PredictionResult {
	probabilities := make(map[string]float64, len(proba))
	confidence := 0.0
	for i, p := range proba {
		probabilities[ClusterKey(i)] = p
		if i == 0 || p > confidence {
			confidence = p
		}
	}
	return &PredictionResult{
		Cluster:       cluster,
		Confidence:    confidence,
		Probabilities: probabilities,
	}
}

// ClusterKey formats a class index as used in probability maps
func ClusterKey(i int) string {
	return fmt.Sprintf("Cluster %d", i)
}
