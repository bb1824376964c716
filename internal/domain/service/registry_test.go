package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type hardLabel struct{}

func (hardLabel) Predict(Features) (int, error) { return 1, nil }

type withProba struct{ hardLabel }

func (withProba) PredictProba(Features) ([]float64, error) { return []float64{0.2, 0.8}, nil }

type identity struct{}

func (identity) Transform(string) (Features, error) { return Features{Dim: 1}, nil }
func (identity) Dimensions() int                     { return 1 }

func TestNewModel(t *testing.T) {
	t.Run("hard label model has no probability view", func(t *testing.T) {
		m := NewModel("svc", "linear_svc", hardLabel{})

		assert.False(t, m.HasProbabilities())
		assert.Nil(t, m.Probabilistic())
		assert.NotNil(t, m.Classifier())
	})

	t.Run("probabilistic model exposes both views", func(t *testing.T) {
		m := NewModel("lr", "logistic_regression", withProba{})

		assert.True(t, m.HasProbabilities())
		assert.NotNil(t, m.Probabilistic())
	})
}

func TestRegistry(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		r := NewRegistry(nil, nil)

		assert.False(t, r.HasVectorizer())
		assert.False(t, r.Healthy())
		assert.False(t, r.Ready())
		assert.Empty(t, r.ModelNames())
	})

	t.Run("models without vectorizer are healthy but not ready", func(t *testing.T) {
		r := NewRegistry(nil, []Model{NewModel("svc", "linear_svc", hardLabel{})})

		assert.True(t, r.Healthy())
		assert.False(t, r.Ready())
	})

	t.Run("keeps configured order", func(t *testing.T) {
		r := NewRegistry(identity{}, []Model{
			NewModel("b", "sgd", hardLabel{}),
			NewModel("a", "linear_svc", hardLabel{}),
		})

		assert.True(t, r.Ready())
		assert.Equal(t, []string{"b", "a"}, r.ModelNames())
	})

	t.Run("is not affected by mutating inputs or outputs", func(t *testing.T) {
		models := []Model{NewModel("a", "sgd", hardLabel{})}
		r := NewRegistry(identity{}, models)

		models[0].Name = "changed"
		out := r.Models()
		out[0].Name = "changed too"

		assert.Equal(t, []string{"a"}, r.ModelNames())
	})
}
