package service

// Model is a named classifier held by the registry
type Model struct {
	Name  string
	Kind  string
	clf   Classifier
	proba ProbabilisticClassifier
}

// NewModel wraps a classifier. Probability support is resolved once here.
func NewModel(name, kind string, clf Classifier) Model {
	m := Model{Name: name, Kind: kind, clf: clf}
	if p, ok := clf.(ProbabilisticClassifier); ok {
		m.proba = p
	}
	return m
}

// Classifier returns the hard-label view of the model
func (m Model) Classifier() Classifier {
	return m.clf
}

// Probabilistic returns the probability view, or nil when the model only predicts labels
func (m Model) Probabilistic() ProbabilisticClassifier {
	return m.proba
}

// HasProbabilities reports whether the model estimates probabilities
func (m Model) HasProbabilities() bool {
	return m.proba != nil
}

// Registry is the immutable set of artifacts loaded at start-up.
// Model order is the configured order and decides confidence ties.
type Registry struct {
	vectorizer Vectorizer
	models     []Model
}

// NewRegistry builds a registry. vectorizer may be nil and models may be empty.
func NewRegistry(vectorizer Vectorizer, models []Model) *Registry {
	ms := make([]Model, len(models))
	copy(ms, models)
	return &Registry{vectorizer: vectorizer, models: ms}
}

// Vectorizer returns the shared vectorizer or nil
func (r *Registry) Vectorizer() Vectorizer {
	return r.vectorizer
}

// Models returns a copy of the loaded models in registry order
func (r *Registry) Models() []Model {
	ms := make([]Model, len(r.models))
	copy(ms, r.models)
	return ms
}

// ModelNames lists loaded model names in registry order
func (r *Registry) ModelNames() []string {
	names := make([]string, len(r.models))
	for i, m := range r.models {
		names[i] = m.Name
	}
	return names
}

// HasVectorizer reports whether the vectorizer loaded
func (r *Registry) HasVectorizer() bool {
	return r.vectorizer != nil
}

// Healthy reports whether at least one model is loaded
func (r *Registry) Healthy() bool {
	return len(r.models) > 0
}

// Ready reports whether predictions can be served
func (r *Registry) Ready() bool {
	return r.HasVectorizer() && r.Healthy()
}
