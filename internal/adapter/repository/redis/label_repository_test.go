package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
)

func TestEncodeHash(t *testing.T) {
	labels := []*entity.ClusterLabel{
		{Cluster: entity.NoCluster, Token: "гол", Topic: "Sport"},
		{Cluster: entity.NoCluster, Token: "выборы", Topic: "Politics"},
		{Cluster: entity.NoCluster, Token: "матч", Topic: "Sport"},
	}

	fields := encodeHash(labels)

	assert.Equal(t, map[string]interface{}{"0": "Sport", "1": "Politics"}, fields)
	assert.Empty(t, encodeHash(nil))
}

func TestDecodeHash(t *testing.T) {
	t.Run("sorted by cluster id", func(t *testing.T) {
		labels, err := decodeHash(map[string]string{"10": "Economy", "2": "Sport"})

		require.NoError(t, err)
		require.Len(t, labels, 2)
		assert.Equal(t, 2, labels[0].Cluster)
		assert.Equal(t, "Sport", labels[0].Topic)
		assert.Equal(t, 10, labels[1].Cluster)
	})

	t.Run("round trip keeps names", func(t *testing.T) {
		fields := map[string]string{}
		for k, v := range encodeHash([]*entity.ClusterLabel{{Cluster: 4, Topic: "Science"}}) {
			fields[k] = v.(string)
		}

		labels, err := decodeHash(fields)

		require.NoError(t, err)
		assert.Equal(t, "Science", entity.NewLabelTable(labels).Name(4))
	})

	t.Run("invalid field", func(t *testing.T) {
		_, err := decodeHash(map[string]string{"sport": "Sport"})

		assert.Error(t, err)
	})
}

func TestNewLabelRepository_DefaultKey(t *testing.T) {
	repo := NewLabelRepository(nil, "").(*labelRepository)

	assert.Equal(t, DefaultKey, repo.key)
}
