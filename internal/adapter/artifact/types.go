package artifact

// Artifact kinds
const (
	KindTFIDF              = "tfidf"
	KindLinearSVC          = "linear_svc"
	KindSGD                = "sgd"
	KindLogisticRegression = "logistic_regression"
)

// VectorizerArtifact is the serialized form of a TF-IDF vectorizer
type VectorizerArtifact struct {
	Kind         string         `json:"kind" msgpack:"kind"`
	Vocabulary   map[string]int `json:"vocabulary" msgpack:"vocabulary"`
	IDF          []float64      `json:"idf" msgpack:"idf"`
	TokenPattern string         `json:"token_pattern,omitempty" msgpack:"token_pattern,omitempty"`
	NgramRange   []int          `json:"ngram_range,omitempty" msgpack:"ngram_range,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty" msgpack:"sublinear_tf,omitempty"`
	Norm         string         `json:"norm,omitempty" msgpack:"norm,omitempty"`
	Lowercase    *bool          `json:"lowercase,omitempty" msgpack:"lowercase,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty" msgpack:"stop_words,omitempty"`
}

// ModelArtifact is the serialized form of a linear classifier.
// A binary classifier carries one coefficient row for two classes.
type ModelArtifact struct {
	Kind       string      `json:"kind" msgpack:"kind"`
	Classes    []int       `json:"classes" msgpack:"classes"`
	Coef       [][]float64 `json:"coef" msgpack:"coef"`
	Intercept  []float64   `json:"intercept" msgpack:"intercept"`
	Loss       string      `json:"loss,omitempty" msgpack:"loss,omitempty"`
	MultiClass string      `json:"multi_class,omitempty" msgpack:"multi_class,omitempty"`
}
