package bootstrap

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ressKim-io/topic-ensemble/internal/adapter/artifact"
	csvrepo "github.com/ressKim-io/topic-ensemble/internal/adapter/repository/csv"
	"github.com/ressKim-io/topic-ensemble/internal/adapter/repository/postgres"
	redisrepo "github.com/ressKim-io/topic-ensemble/internal/adapter/repository/redis"
	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/domain/repository"
	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/cache"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/config"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/database"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/metrics"
)

// App holds everything loaded at start-up
type App struct {
	Registry    *service.Registry
	Labels      *entity.LabelTable
	LoadResults []artifact.LoadResult

	// DB and Redis are set only when the label source needs them
	DB    *gorm.DB
	Redis *goredis.Client
}

// Close releases connections opened during Load
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

// Load builds the model registry and the label table.
// Missing artifacts and an unavailable label source are logged and tolerated;
// the service then starts degraded.
func Load(ctx context.Context, cfg *config.Config, log *zap.Logger) *App {
	registry, results := artifact.LoadRegistry(&cfg.Artifacts, log)

	var failed []string
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r.Artifact)
		}
	}
	metrics.RecordArtifacts(len(registry.Models()), registry.HasVectorizer(), failed)
	if !registry.Healthy() {
		log.Error("No models loaded, predictions will be rejected")
	}

	app := &App{Registry: registry, LoadResults: results}
	app.loadLabels(ctx, cfg, log)
	metrics.LabelsLoaded.Set(float64(app.Labels.Len()))

	return app
}

// LoadLabelsOnly connects to the configured label source without loading artifacts
func LoadLabelsOnly(ctx context.Context, cfg *config.Config, log *zap.Logger) *App {
	app := &App{Registry: service.NewRegistry(nil, nil)}
	app.loadLabels(ctx, cfg, log)
	return app
}

func (a *App) loadLabels(ctx context.Context, cfg *config.Config, log *zap.Logger) {
	repo, err := a.labelRepository(cfg, log)
	if err != nil {
		log.Warn("Label source unavailable, continuing without cluster names",
			zap.String("source", cfg.Labels.Source),
			zap.Error(err),
		)
	}
	a.Labels = LoadLabels(ctx, repo, log)
}

// LoadLabels reads a label table; a nil repository or a read error yields an empty table
func LoadLabels(ctx context.Context, repo repository.LabelRepository, log *zap.Logger) *entity.LabelTable {
	if repo == nil {
		return entity.EmptyLabelTable()
	}
	rows, err := repo.List(ctx)
	if err != nil {
		log.Warn("Failed to load cluster labels", zap.Error(err))
		return entity.EmptyLabelTable()
	}
	table := entity.NewLabelTable(rows)
	log.Info("Loaded cluster labels",
		zap.Int("rows", len(rows)),
		zap.Int("clusters", table.Len()),
	)
	return table
}

func (a *App) labelRepository(cfg *config.Config, log *zap.Logger) (repository.LabelRepository, error) {
	labels := &cfg.Labels
	switch labels.Source {
	case config.LabelSourceCSV:
		return csvrepo.NewLabelRepository(labels.CSVPath), nil
	case config.LabelSourcePostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		a.DB = db
		log.Info("Connected to database")
		return postgres.NewLabelRepository(db), nil
	case config.LabelSourceRedis:
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = client
		log.Info("Connected to Redis")
		return redisrepo.NewLabelRepository(client, labels.RedisKey), nil
	case config.LabelSourceNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown label source %q", labels.Source)
	}
}

// OpenLabelStore connects to a writable label store; used by the import command
func OpenLabelStore(target string, cfg *config.Config) (repository.LabelStore, func() error, error) {
	switch target {
	case config.LabelSourcePostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to migrate cluster labels: %w", err)
		}
		return postgres.NewLabelRepository(db), func() error { return database.Close(db) }, nil
	case config.LabelSourceRedis:
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewLabelRepository(client, cfg.Labels.RedisKey), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("label store %q is not writable, use %s or %s",
			target, config.LabelSourcePostgres, config.LabelSourceRedis)
	}
}
