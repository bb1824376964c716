package artifact

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/config"
)

// VectorizerArtifactName identifies the vectorizer in load results
const VectorizerArtifactName = "vectorizer"

// LoadResult records the outcome of loading one artifact file
type LoadResult struct {
	Artifact      string `json:"artifact"`
	Path          string `json:"path"`
	Kind          string `json:"kind,omitempty"`
	Probabilities bool   `json:"probabilities"`
	Err           error  `json:"-"`
}

// OK reports whether the artifact loaded
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// ErrorMessage returns the failure reason or an empty string
func (r LoadResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// LoadVectorizer reads and validates a vectorizer artifact
func LoadVectorizer(path string) (service.Vectorizer, error) {
	var a VectorizerArtifact
	if err := ReadFile(path, &a); err != nil {
		return nil, err
	}
	v, err := NewTFIDF(&a)
	if err != nil {
		return nil, fmt.Errorf("invalid vectorizer artifact: %w", err)
	}
	return v, nil
}

// LoadModel reads and validates a model artifact
func LoadModel(name, path string) (service.Model, error) {
	var a ModelArtifact
	if err := ReadFile(path, &a); err != nil {
		return service.Model{}, err
	}
	clf, err := NewClassifier(&a)
	if err != nil {
		return service.Model{}, fmt.Errorf("invalid model artifact: %w", err)
	}
	return service.NewModel(name, a.Kind, clf), nil
}

// LoadRegistry loads the vectorizer and every configured model.
// Each artifact loads independently; failures are reported in the results
// and the artifact is left out of the registry.
func LoadRegistry(cfg *config.ArtifactsConfig, log *zap.Logger) (*service.Registry, []LoadResult) {
	results := make([]LoadResult, 0, len(cfg.Models)+1)

	vecPath := resolve(cfg.Dir, cfg.Vectorizer)
	vectorizer, err := LoadVectorizer(vecPath)
	vecResult := LoadResult{Artifact: VectorizerArtifactName, Path: vecPath, Err: err}
	if err == nil {
		vecResult.Kind = KindTFIDF
		log.Info("Loaded vectorizer",
			zap.String("path", vecPath),
			zap.Int("dimensions", vectorizer.Dimensions()),
		)
	} else {
		log.Warn("Failed to load vectorizer", zap.String("path", vecPath), zap.Error(err))
	}
	results = append(results, vecResult)

	models := make([]service.Model, 0, len(cfg.Models))
	for _, entry := range cfg.Models {
		path := resolve(cfg.Dir, entry.File)
		model, err := LoadModel(entry.Name, path)
		if err == nil {
			err = checkWidth(model, vectorizer)
		}
		res := LoadResult{Artifact: entry.Name, Path: path, Err: err}
		if err != nil {
			log.Warn("Failed to load model", zap.String("model", entry.Name), zap.String("path", path), zap.Error(err))
			results = append(results, res)
			continue
		}

		res.Kind = model.Kind
		res.Probabilities = model.HasProbabilities()
		results = append(results, res)
		models = append(models, model)
		log.Info("Loaded model",
			zap.String("model", entry.Name),
			zap.String("kind", model.Kind),
			zap.Bool("probabilities", model.HasProbabilities()),
		)
	}

	return service.NewRegistry(vectorizer, models), results
}

// checkWidth rejects a model that cannot accept the vectorizer's output.
// Without a vectorizer there is nothing to compare against.
func checkWidth(model service.Model, vectorizer service.Vectorizer) error {
	if vectorizer == nil {
		return nil
	}
	sized, ok := model.Classifier().(interface{ Width() int })
	if !ok || sized.Width() == vectorizer.Dimensions() {
		return nil
	}
	return fmt.Errorf("%w: vectorizer produces %d features, model expects %d",
		ErrDimensionMismatch, vectorizer.Dimensions(), sized.Width())
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) || dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}
