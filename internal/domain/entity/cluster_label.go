package entity

import "sort"

// UnknownClusterName is shown when a cluster id has no label
const UnknownClusterName = "Unknown"

// NoCluster marks a label row without an explicit cluster id
const NoCluster = -1

// ClusterLabel is one row of the reference dataset: a tokenized text and its topic
type ClusterLabel struct {
	ID      uint   `json:"-" gorm:"primaryKey"`
	Cluster int    `json:"cluster" gorm:"not null;default:-1;index"`
	Token   string `json:"text_tokenize" gorm:"type:text;not null"`
	Topic   string `json:"topic" gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ClusterLabel) TableName() string {
	return "cluster_labels"
}

// ClusterName pairs a cluster id with its display name
type ClusterName struct {
	Cluster int    `json:"cluster"`
	Name    string `json:"name"`
}

// LabelTable resolves cluster ids and token strings to topic names. Read-only once built.
type LabelTable struct {
	byToken   map[string]string
	byCluster map[int]string
	clusters  []ClusterName
}

// NewLabelTable builds a table from dataset rows.
// Rows are deduplicated on (token, topic); a repeated token keeps its last topic.
// Rows without a cluster id get ids assigned to distinct topics in first-appearance order.
func NewLabelTable(rows []*ClusterLabel) *LabelTable {
	t := &LabelTable{
		byToken:   make(map[string]string),
		byCluster: make(map[int]string),
	}

	type pair struct{ token, topic string }
	seen := make(map[pair]bool, len(rows))
	topicIDs := make(map[string]int)
	nextID := 0
	for _, row := range rows {
		if row == nil {
			continue
		}
		p := pair{row.Token, row.Topic}
		if seen[p] {
			continue
		}
		seen[p] = true

		if row.Token != "" {
			t.byToken[row.Token] = row.Topic
		}

		cluster := row.Cluster
		if cluster == NoCluster {
			id, ok := topicIDs[row.Topic]
			if !ok {
				id = nextID
				topicIDs[row.Topic] = id
				nextID++
			}
			cluster = id
		}
		if _, ok := t.byCluster[cluster]; !ok {
			t.byCluster[cluster] = row.Topic
		}
	}

	t.clusters = make([]ClusterName, 0, len(t.byCluster))
	for id, name := range t.byCluster {
		t.clusters = append(t.clusters, ClusterName{Cluster: id, Name: name})
	}
	sort.Slice(t.clusters, func(i, j int) bool { return t.clusters[i].Cluster < t.clusters[j].Cluster })

	return t
}

// EmptyLabelTable returns a table that resolves every id to UnknownClusterName
func EmptyLabelTable() *LabelTable {
	return NewLabelTable(nil)
}

// Name returns the display name for a cluster id, or UnknownClusterName
func (t *LabelTable) Name(cluster int) string {
	if t == nil {
		return UnknownClusterName
	}
	if name, ok := t.byCluster[cluster]; ok {
		return name
	}
	return UnknownClusterName
}

// TopicForToken looks up the topic of a tokenized text
func (t *LabelTable) TopicForToken(token string) (string, bool) {
	if t == nil {
		return "", false
	}
	topic, ok := t.byToken[token]
	return topic, ok
}

// Clusters returns every known cluster ordered by id
func (t *LabelTable) Clusters() []ClusterName {
	if t == nil {
		return nil
	}
	out := make([]ClusterName, len(t.clusters))
	copy(out, t.clusters)
	return out
}

// Len returns the number of known clusters
func (t *LabelTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.clusters)
}
