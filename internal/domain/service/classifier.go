package service

// Features is a sparse, fixed-width numeric representation of a text
type Features struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Vectorizer maps raw text to the feature space shared by every model
type Vectorizer interface {
	// Transform encodes a single text
	Transform(text string) (Features, error)

	// Dimensions returns the width of the produced feature vectors
	Dimensions() int
}

// Classifier predicts a hard cluster id
type Classifier interface {
	Predict(x Features) (int, error)
}

// ProbabilisticClassifier also estimates per-class probabilities.
// PredictProba returns one probability per class index.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(x Features) ([]float64, error)
}
