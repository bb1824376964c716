package artifact

// sportsVectorizer knows four terms: two per topic
func sportsVectorizer() *VectorizerArtifact {
	return &VectorizerArtifact{
		Kind: KindTFIDF,
		Vocabulary: map[string]int{
			"матч":   0,
			"гол":    1,
			"выборы": 2,
			"партия": 3,
		},
		IDF: []float64{1, 1, 1, 1},
	}
}

// sportsModel separates sport (class 0) from politics (class 1)
func sportsModel(kind string) *ModelArtifact {
	return &ModelArtifact{
		Kind:    kind,
		Classes: []int{0, 1},
		Coef: [][]float64{
			{2, 2, -2, -2},
			{-2, -2, 2, 2},
		},
		Intercept: []float64{0, 0},
	}
}
