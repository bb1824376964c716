package repository

import (
	"context"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
)

// LabelRepository reads the reference dataset behind the cluster label table
type LabelRepository interface {
	// List returns every label row in storage order
	List(ctx context.Context) ([]*entity.ClusterLabel, error)
}

// LabelStore is a LabelRepository that can also be rewritten, used by the import tooling
type LabelStore interface {
	LabelRepository

	// ReplaceAll swaps the stored rows for the given ones
	ReplaceAll(ctx context.Context, labels []*entity.ClusterLabel) error
}
