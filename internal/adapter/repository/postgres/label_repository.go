package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/domain/repository"
)

// insertBatchSize bounds the rows sent per INSERT during ReplaceAll
const insertBatchSize = 500

type labelRepository struct {
	db *gorm.DB
}

// NewLabelRepository creates a new cluster label repository
func NewLabelRepository(db *gorm.DB) repository.LabelStore {
	return &labelRepository{db: db}
}

func (r *labelRepository) List(ctx context.Context) ([]*entity.ClusterLabel, error) {
	var labels []*entity.ClusterLabel
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&labels).Error
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// ReplaceAll swaps the table contents in one transaction.
// The table must exist; see database.AutoMigrate.
func (r *labelRepository) ReplaceAll(ctx context.Context, labels []*entity.ClusterLabel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.ClusterLabel{}).Error; err != nil {
			return fmt.Errorf("failed to clear cluster labels: %w", err)
		}
		if len(labels) == 0 {
			return nil
		}

		rows := make([]*entity.ClusterLabel, len(labels))
		for i, l := range labels {
			row := *l
			row.ID = 0
			rows[i] = &row
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert cluster labels: %w", err)
		}
		return nil
	})
}
