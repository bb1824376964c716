package artifact

import (
	"errors"
	"fmt"
	"math"

	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
)

// ErrDimensionMismatch is returned when features and coefficients disagree on width
var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// ErrNonFinite is returned when an artifact carries NaN or infinite weights
var ErrNonFinite = errors.New("non-finite value")

// SGD losses that support probability estimates
const (
	LossLog           = "log"
	LossLogLoss       = "log_loss"
	LossModifiedHuber = "modified_huber"
	LossHinge         = "hinge"
)

// Multi-class strategies of logistic regression
const (
	MultiClassMultinomial = "multinomial"
	MultiClassOVR         = "ovr"
)

// LinearModel is a fitted linear classifier that predicts hard labels
type LinearModel struct {
	classes   []int
	coef      [][]float64
	intercept []float64
	width     int
}

var _ service.Classifier = (*LinearModel)(nil)

// ProbabilisticLinearModel adds a probability link to a LinearModel
type ProbabilisticLinearModel struct {
	*LinearModel
	link func(scores []float64) []float64
}

var _ service.ProbabilisticClassifier = (*ProbabilisticLinearModel)(nil)

// NewClassifier builds the classifier described by a model artifact.
// The returned value implements service.ProbabilisticClassifier only when the
// model kind and loss support probability estimates.
func NewClassifier(a *ModelArtifact) (service.Classifier, error) {
	base, err := newLinearModel(a)
	if err != nil {
		return nil, err
	}

	switch a.Kind {
	case KindLinearSVC:
		return base, nil
	case KindSGD:
		switch a.Loss {
		case LossLog, LossLogLoss:
			return &ProbabilisticLinearModel{LinearModel: base, link: sigmoidLink}, nil
		case LossModifiedHuber:
			return &ProbabilisticLinearModel{LinearModel: base, link: modifiedHuberLink}, nil
		default:
			return base, nil
		}
	case KindLogisticRegression:
		switch a.MultiClass {
		case "", "auto", MultiClassMultinomial:
			return &ProbabilisticLinearModel{LinearModel: base, link: softmaxLink}, nil
		case MultiClassOVR:
			return &ProbabilisticLinearModel{LinearModel: base, link: sigmoidLink}, nil
		default:
			return nil, fmt.Errorf("unsupported multi_class %q", a.MultiClass)
		}
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
}

func newLinearModel(a *ModelArtifact) (*LinearModel, error) {
	if len(a.Classes) < 2 {
		return nil, fmt.Errorf("model needs at least two classes, got %d", len(a.Classes))
	}
	binary := len(a.Classes) == 2 && len(a.Coef) == 1
	if !binary && len(a.Coef) != len(a.Classes) {
		return nil, fmt.Errorf("model has %d coefficient rows for %d classes", len(a.Coef), len(a.Classes))
	}
	if len(a.Intercept) != len(a.Coef) {
		return nil, fmt.Errorf("model has %d intercepts for %d coefficient rows", len(a.Intercept), len(a.Coef))
	}

	width := len(a.Coef[0])
	if width == 0 {
		return nil, errors.New("model has empty coefficient rows")
	}
	for i, row := range a.Coef {
		if len(row) != width {
			return nil, fmt.Errorf("coefficient row %d has width %d, expected %d", i, len(row), width)
		}
		if j := firstNonFinite(row); j >= 0 {
			return nil, fmt.Errorf("%w in coef[%d][%d]: %v", ErrNonFinite, i, j, row[j])
		}
	}
	if j := firstNonFinite(a.Intercept); j >= 0 {
		return nil, fmt.Errorf("%w in intercept[%d]: %v", ErrNonFinite, j, a.Intercept[j])
	}

	return &LinearModel{
		classes:   a.Classes,
		coef:      a.Coef,
		intercept: a.Intercept,
		width:     width,
	}, nil
}

// Width returns the number of features the model expects
func (m *LinearModel) Width() int {
	return m.width
}

// Predict returns the class with the highest decision score
func (m *LinearModel) Predict(x service.Features) (int, error) {
	scores, err := m.decision(x)
	if err != nil {
		return 0, err
	}
	if len(scores) == 1 {
		if scores[0] > 0 {
			return m.classes[1], nil
		}
		return m.classes[0], nil
	}
	return m.classes[argmax(scores)], nil
}

// PredictProba returns one probability per class index
func (m *ProbabilisticLinearModel) PredictProba(x service.Features) ([]float64, error) {
	scores, err := m.decision(x)
	if err != nil {
		return nil, err
	}
	return m.link(scores), nil
}

func (m *LinearModel) decision(x service.Features) ([]float64, error) {
	if x.Dim != m.width {
		return nil, fmt.Errorf("%w: vectorizer produces %d features, model expects %d", ErrDimensionMismatch, x.Dim, m.width)
	}
	if len(x.Indices) != len(x.Values) {
		return nil, fmt.Errorf("malformed features: %d indices, %d values", len(x.Indices), len(x.Values))
	}

	scores := make([]float64, len(m.coef))
	for r, row := range m.coef {
		s := m.intercept[r]
		for i, col := range x.Indices {
			if col < 0 || col >= m.width {
				return nil, fmt.Errorf("feature index %d out of range", col)
			}
			s += row[col] * x.Values[i]
		}
		scores[r] = s
	}
	return scores, nil
}

// firstNonFinite returns the index of the first NaN or infinity, or -1
func firstNonFinite(xs []float64) int {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// sigmoidLink: binary sigmoid, or one-vs-rest sigmoids normalized to sum to one
func sigmoidLink(scores []float64) []float64 {
	if len(scores) == 1 {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}
	}
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = sigmoid(s)
	}
	return normalizeProba(out)
}

func softmaxLink(scores []float64) []float64 {
	if len(scores) == 1 {
		return sigmoidLink(scores)
	}
	maxScore := scores[argmax(scores)]
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func modifiedHuberLink(scores []float64) []float64 {
	clip := func(s float64) float64 { return (math.Max(-1, math.Min(1, s)) + 1) / 2 }
	if len(scores) == 1 {
		p := clip(scores[0])
		return []float64{1 - p, p}
	}
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = clip(s)
	}
	return normalizeProba(out)
}

// normalizeProba scales to sum one; an all-zero vector becomes uniform
func normalizeProba(p []float64) []float64 {
	var sum float64
	for _, x := range p {
		sum += x
	}
	if sum == 0 {
		for i := range p {
			p[i] = 1 / float64(len(p))
		}
		return p
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}
