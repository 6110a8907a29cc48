package embed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"regexp"
	"strings"

	"parshealth.com/triage/utils"
)

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// Encoder is a single member of the embedding model pool: a fitted
// hashed bag-of-words encoder. Tokens are hashed into a fixed number
// of dimensions; per-token weights (IDF from the training corpus) and
// a stopword list come from the JSON artifact. Encoders are read-only
// after load.
type Encoder struct {
	Name      string             `json:"name"`
	Dim       int                `json:"dim"`
	Weights   map[string]float64 `json:"weights"`
	Stopwords []string           `json:"stopwords"`

	stopwords map[string]bool
}

func LoadEncoder(path string) (*Encoder, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var e Encoder
	if err := json.Unmarshal(buf, &e); err != nil {
		return nil, err
	}
	return NewEncoder(e.Name, e.Dim, e.Weights, e.Stopwords)
}

// NewEncoder builds an encoder from already-loaded artifact fields.
func NewEncoder(name string, dim int, weights map[string]float64, stopwords []string) (*Encoder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("encoder %q has non-positive dim %d", name, dim)
	}
	e := Encoder{
		Name:      name,
		Dim:       dim,
		Weights:   weights,
		Stopwords: stopwords,
		stopwords: make(map[string]bool, len(stopwords)),
	}
	for _, word := range stopwords {
		e.stopwords[word] = true
	}
	return &e, nil
}

func tokenize(text string) []string {
	parts := tokenSplit.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// Encode maps text into the encoder's vector space. The vector is
// L2-normalized so cosine similarity reduces to a dot product. Empty
// input (or input consisting only of stopwords) is an error: there is
// no meaningful direction to compare against.
func (e *Encoder) Encode(text string) ([]float64, error) {
	vector := make([]float64, e.Dim)
	found := false
	for _, token := range tokenize(text) {
		if e.stopwords[token] {
			continue
		}
		weight := 1.0
		if w, ok := e.Weights[token]; ok {
			weight = w
		}
		idx := int(utils.HashString(token) % uint64(e.Dim))
		vector[idx] += weight
		found = true
	}
	if !found {
		return nil, errors.New("no tokens to encode")
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, errors.New("zero-norm embedding")
	}
	for i := range vector {
		vector[i] /= norm
	}
	return vector, nil
}

// Cosine returns the cosine similarity of two vectors in [-1,1].
func Cosine(a []float64, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, errors.New("zero-norm vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
