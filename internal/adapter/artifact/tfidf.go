package artifact

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ressKim-io/topic-ensemble/internal/domain/service"
)

// DefaultTokenPattern matches runs of two or more letters, digits or underscores in any script
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// ErrInvalidText is returned for input the vectorizer cannot encode
var ErrInvalidText = errors.New("text is not valid UTF-8")

// Norms
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = "none"
)

// TFIDF is a fitted term-frequency / inverse-document-frequency vectorizer
type TFIDF struct {
	vocabulary  map[string]int
	idf         []float64
	pattern     *regexp.Regexp
	ngramMin    int
	ngramMax    int
	sublinearTF bool
	norm        string
	lowercase   bool
	stopWords   map[string]struct{}
}

var _ service.Vectorizer = (*TFIDF)(nil)

// NewTFIDF validates an artifact and builds the vectorizer
func NewTFIDF(a *VectorizerArtifact) (*TFIDF, error) {
	if a.Kind != KindTFIDF {
		return nil, fmt.Errorf("unsupported vectorizer kind %q", a.Kind)
	}
	if len(a.IDF) == 0 {
		return nil, errors.New("vectorizer has an empty idf vector")
	}
	if j := firstNonFinite(a.IDF); j >= 0 {
		return nil, fmt.Errorf("%w in idf[%d]: %v", ErrNonFinite, j, a.IDF[j])
	}
	if len(a.Vocabulary) == 0 {
		return nil, errors.New("vectorizer has an empty vocabulary")
	}
	for term, col := range a.Vocabulary {
		if col < 0 || col >= len(a.IDF) {
			return nil, fmt.Errorf("vocabulary term %q maps to column %d outside [0,%d)", term, col, len(a.IDF))
		}
	}

	pattern := a.TokenPattern
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid token pattern: %w", err)
	}

	ngramMin, ngramMax := 1, 1
	if len(a.NgramRange) != 0 {
		if len(a.NgramRange) != 2 || a.NgramRange[0] < 1 || a.NgramRange[1] < a.NgramRange[0] {
			return nil, fmt.Errorf("invalid ngram range %v", a.NgramRange)
		}
		ngramMin, ngramMax = a.NgramRange[0], a.NgramRange[1]
	}

	norm := a.Norm
	switch norm {
	case "":
		norm = NormL2
	case NormL2, NormL1, NormNone:
	default:
		return nil, fmt.Errorf("unsupported norm %q", a.Norm)
	}

	lowercase := true
	if a.Lowercase != nil {
		lowercase = *a.Lowercase
	}

	stop := make(map[string]struct{}, len(a.StopWords))
	for _, w := range a.StopWords {
		stop[w] = struct{}{}
	}

	return &TFIDF{
		vocabulary:  a.Vocabulary,
		idf:         a.IDF,
		pattern:     re,
		ngramMin:    ngramMin,
		ngramMax:    ngramMax,
		sublinearTF: a.SublinearTF,
		norm:        norm,
		lowercase:   lowercase,
		stopWords:   stop,
	}, nil
}

// Dimensions returns the feature width
func (v *TFIDF) Dimensions() int {
	return len(v.idf)
}

// Transform encodes a text as a normalized tf-idf vector
func (v *TFIDF) Transform(text string) (service.Features, error) {
	if !utf8.ValidString(text) {
		return service.Features{}, ErrInvalidText
	}
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, term := range v.terms(text) {
		if col, ok := v.vocabulary[term]; ok {
			counts[col]++
		}
	}

	indices := make([]int, 0, len(counts))
	for col := range counts {
		indices = append(indices, col)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, col := range indices {
		tf := counts[col]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		values[i] = tf * v.idf[col]
	}
	normalize(values, v.norm)

	return service.Features{Dim: len(v.idf), Indices: indices, Values: values}, nil
}

func (v *TFIDF) terms(text string) []string {
	raw := v.pattern.FindAllString(text, -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, skip := v.stopWords[tok]; !skip {
			tokens = append(tokens, tok)
		}
	}

	if v.ngramMin == 1 && v.ngramMax == 1 {
		return tokens
	}

	var terms []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case NormL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
