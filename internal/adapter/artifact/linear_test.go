package artifact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
)

func sparse(dim int, pairs ...float64) service.Features {
	x := service.Features{Dim: dim}
	for i := 0; i+1 < len(pairs); i += 2 {
		x.Indices = append(x.Indices, int(pairs[i]))
		x.Values = append(x.Values, pairs[i+1])
	}
	return x
}

func TestNewClassifier_Capabilities(t *testing.T) {
	tests := []struct {
		name      string
		artifact  func() *ModelArtifact
		wantProba bool
	}{
		{name: "linear svc", artifact: func() *ModelArtifact { return sportsModel(KindLinearSVC) }, wantProba: false},
		{name: "sgd hinge", artifact: func() *ModelArtifact { return sportsModel(KindSGD) }, wantProba: false},
		{name: "sgd log loss", artifact: func() *ModelArtifact {
			a := sportsModel(KindSGD)
			a.Loss = LossLogLoss
			return a
		}, wantProba: true},
		{name: "sgd modified huber", artifact: func() *ModelArtifact {
			a := sportsModel(KindSGD)
			a.Loss = LossModifiedHuber
			return a
		}, wantProba: true},
		{name: "logistic regression", artifact: func() *ModelArtifact { return sportsModel(KindLogisticRegression) }, wantProba: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf, err := NewClassifier(tt.artifact())
			require.NoError(t, err)

			_, ok := clf.(service.ProbabilisticClassifier)
			assert.Equal(t, tt.wantProba, ok)
		})
	}
}

func TestNewClassifier_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ModelArtifact)
		wantErr string
	}{
		{name: "unknown kind", mutate: func(a *ModelArtifact) { a.Kind = "random_forest" }, wantErr: "unsupported model kind"},
		{name: "single class", mutate: func(a *ModelArtifact) { a.Classes = []int{0} }, wantErr: "at least two classes"},
		{name: "rows do not match classes", mutate: func(a *ModelArtifact) { a.Classes = []int{0, 1, 2} }, wantErr: "coefficient rows"},
		{name: "intercept count", mutate: func(a *ModelArtifact) { a.Intercept = []float64{0} }, wantErr: "intercepts"},
		{name: "ragged rows", mutate: func(a *ModelArtifact) { a.Coef[1] = []float64{1} }, wantErr: "coefficient row 1"},
		{name: "empty rows", mutate: func(a *ModelArtifact) { a.Coef = [][]float64{{}, {}} }, wantErr: "empty coefficient rows"},
		{name: "infinite coefficient", mutate: func(a *ModelArtifact) { a.Coef[0][0] = math.Inf(1) }, wantErr: "non-finite value in coef[0][0]"},
		{name: "NaN coefficient", mutate: func(a *ModelArtifact) { a.Coef[1][3] = math.NaN() }, wantErr: "non-finite value in coef[1][3]"},
		{name: "infinite intercept", mutate: func(a *ModelArtifact) { a.Intercept[1] = math.Inf(-1) }, wantErr: "non-finite value in intercept[1]"},
		{name: "bad multi class", mutate: func(a *ModelArtifact) {
			a.Kind = KindLogisticRegression
			a.MultiClass = "crammer_singer"
		}, wantErr: "unsupported multi_class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sportsModel(KindLinearSVC)
			tt.mutate(a)

			_, err := NewClassifier(a)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLinearModel_Predict(t *testing.T) {
	clf, err := NewClassifier(sportsModel(KindLinearSVC))
	require.NoError(t, err)

	t.Run("multi row argmax", func(t *testing.T) {
		got, err := clf.Predict(sparse(4, 0, 0.6, 1, 0.8))
		require.NoError(t, err)
		assert.Equal(t, 0, got)

		got, err = clf.Predict(sparse(4, 2, 1))
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("ties go to the first class", func(t *testing.T) {
		got, err := clf.Predict(sparse(4))
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := clf.Predict(sparse(7, 0, 1))
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("malformed features", func(t *testing.T) {
		_, err := clf.Predict(service.Features{Dim: 4, Indices: []int{0}})
		assert.Error(t, err)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := clf.Predict(sparse(4, 9, 1))
		assert.Error(t, err)
	})
}

func TestLinearModel_PredictBinary(t *testing.T) {
	clf, err := NewClassifier(&ModelArtifact{
		Kind:      KindLinearSVC,
		Classes:   []int{3, 7},
		Coef:      [][]float64{{1, -1}},
		Intercept: []float64{0},
	})
	require.NoError(t, err)

	got, err := clf.Predict(sparse(2, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = clf.Predict(sparse(2, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = clf.Predict(sparse(2))
	require.NoError(t, err)
	assert.Equal(t, 3, got, "zero score is the negative class")
}

func TestProbabilisticLinearModel_PredictProba(t *testing.T) {
	x := sparse(4, 0, 1)

	t.Run("multinomial softmax", func(t *testing.T) {
		clf, err := NewClassifier(sportsModel(KindLogisticRegression))
		require.NoError(t, err)

		p, err := clf.(service.ProbabilisticClassifier).PredictProba(x)

		require.NoError(t, err)
		require.Len(t, p, 2)
		want := 1 / (1 + math.Exp(-4))
		assert.InDelta(t, want, p[0], 1e-12)
		assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)
	})

	t.Run("one-vs-rest sigmoid is normalized", func(t *testing.T) {
		a := sportsModel(KindLogisticRegression)
		a.MultiClass = MultiClassOVR
		a.Classes = []int{0, 1, 2}
		a.Coef = append(a.Coef, []float64{0, 0, 0, 0})
		a.Intercept = []float64{0, 0, 0}
		clf, err := NewClassifier(a)
		require.NoError(t, err)

		p, err := clf.(service.ProbabilisticClassifier).PredictProba(x)

		require.NoError(t, err)
		require.Len(t, p, 3)
		assert.InDelta(t, 1.0, p[0]+p[1]+p[2], 1e-12)
		assert.Greater(t, p[0], p[2])
		assert.Greater(t, p[2], p[1])
	})

	t.Run("binary sigmoid", func(t *testing.T) {
		clf, err := NewClassifier(&ModelArtifact{
			Kind:      KindSGD,
			Loss:      LossLog,
			Classes:   []int{0, 1},
			Coef:      [][]float64{{1}},
			Intercept: []float64{0},
		})
		require.NoError(t, err)

		p, err := clf.(service.ProbabilisticClassifier).PredictProba(sparse(1, 0, 2))

		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(-2)), p[1], 1e-12)
		assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)
	})

	t.Run("modified huber clips scores", func(t *testing.T) {
		a := sportsModel(KindSGD)
		a.Loss = LossModifiedHuber
		clf, err := NewClassifier(a)
		require.NoError(t, err)

		p, err := clf.(service.ProbabilisticClassifier).PredictProba(x)

		require.NoError(t, err)
		assert.Equal(t, []float64{1, 0}, p)
	})

	t.Run("modified huber all zero becomes uniform", func(t *testing.T) {
		a := sportsModel(KindSGD)
		a.Loss = LossModifiedHuber
		a.Intercept = []float64{-5, -5}
		clf, err := NewClassifier(a)
		require.NoError(t, err)

		p, err := clf.(service.ProbabilisticClassifier).PredictProba(sparse(4))

		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.5}, p)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		clf, err := NewClassifier(sportsModel(KindLogisticRegression))
		require.NoError(t, err)

		_, err = clf.(service.ProbabilisticClassifier).PredictProba(sparse(2))

		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}
