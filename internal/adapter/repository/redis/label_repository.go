package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/domain/repository"
)

// DefaultKey is the hash holding cluster id -> topic name
const DefaultKey = "cluster_labels"

type labelRepository struct {
	client *redis.Client
	key    string
}

// NewLabelRepository creates a label store over a Redis hash.
// Only the cluster table is stored; token lookups are not available from Redis.
func NewLabelRepository(client *redis.Client, key string) repository.LabelStore {
	if key == "" {
		key = DefaultKey
	}
	return &labelRepository{client: client, key: key}
}

func (r *labelRepository) List(ctx context.Context) ([]*entity.ClusterLabel, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.key, err)
	}
	return decodeHash(fields)
}

func (r *labelRepository) ReplaceAll(ctx context.Context, labels []*entity.ClusterLabel) error {
	fields := encodeHash(labels)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(fields) > 0 {
			pipe.HSet(ctx, r.key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", r.key, err)
	}
	return nil
}

// encodeHash resolves cluster ids the same way the label table does and
// flattens them to hash fields
func encodeHash(labels []*entity.ClusterLabel) map[string]interface{} {
	clusters := entity.NewLabelTable(labels).Clusters()
	fields := make(map[string]interface{}, len(clusters))
	for _, c := range clusters {
		fields[strconv.Itoa(c.Cluster)] = c.Name
	}
	return fields
}

func decodeHash(fields map[string]string) ([]*entity.ClusterLabel, error) {
	labels := make([]*entity.ClusterLabel, 0, len(fields))
	for field, topic := range fields {
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid cluster id %q in label hash", field)
		}
		labels = append(labels, &entity.ClusterLabel{Cluster: id, Topic: topic})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Cluster < labels[j].Cluster })
	return labels, nil
}
