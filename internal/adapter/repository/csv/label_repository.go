package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/domain/repository"
)

// Column names of the reference dataset
const (
	ColumnToken   = "text_tokenize"
	ColumnTopic   = "topic"
	ColumnCluster = "cluster"
)

// ErrMissingColumn is returned when the header lacks a required column
var ErrMissingColumn = errors.New("missing required column")

type labelRepository struct {
	path string
}

// NewLabelRepository creates a label repository backed by a CSV file
func NewLabelRepository(path string) repository.LabelRepository {
	return &labelRepository{path: path}
}

func (r *labelRepository) List(ctx context.Context) ([]*entity.ClusterLabel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer file.Close()

	return ReadLabels(file)
}

// ReadLabels parses label rows from CSV with a header row.
// text_tokenize and topic are required; cluster is optional and
// rows without it get entity.NoCluster. Other columns are ignored.
func ReadLabels(r io.Reader) ([]*entity.ClusterLabel, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("label file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	tokenCol, topicCol, clusterCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")) {
		case ColumnToken:
			tokenCol = i
		case ColumnTopic:
			topicCol = i
		case ColumnCluster:
			clusterCol = i
		}
	}
	if tokenCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnToken)
	}
	if topicCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnTopic)
	}

	var labels []*entity.ClusterLabel
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if len(record) <= tokenCol || len(record) <= topicCol {
			continue // short row
		}

		label := &entity.ClusterLabel{
			Cluster: entity.NoCluster,
			Token:   record[tokenCol],
			Topic:   record[topicCol],
		}
		if clusterCol >= 0 && clusterCol < len(record) {
			if raw := strings.TrimSpace(record[clusterCol]); raw != "" {
				id, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid cluster id %q", line, raw)
				}
				label.Cluster = id
			}
		}
		labels = append(labels, label)
	}

	return labels, nil
}
