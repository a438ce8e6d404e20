package retrieval

import (
	"math"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto"
)

const (
	queryCacheCounters = 1 << 14
	queryCacheMaxCost  = 1 << 20
)

// Vector is a sparse term-frequency vector keyed by vocabulary dimension.
type Vector map[int]float64

// Vectorizer maps text to L2-normalized bag-of-words vectors.
// Its vocabulary only grows; a token keeps the dimension it was first given.
type Vectorizer struct {
	mu    sync.Mutex
	vocab map[string]int

	// queries caches query vectors by raw text. Dimensions never move, so a
	// cached vector stays valid as the vocabulary grows. cacheMu guards the
	// handle itself so Close cannot race an in-flight Set.
	cacheMu sync.RWMutex
	queries *ristretto.Cache
}

// NewVectorizer returns an empty vectorizer. The query cache runs background
// goroutines until Close is called.
func NewVectorizer() *Vectorizer {
	v := &Vectorizer{vocab: make(map[string]int, 256)}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: queryCacheCounters,
		MaxCost:     queryCacheMaxCost,
		BufferItems: 64,
	})
	if err == nil {
		v.queries = cache
	}
	return v
}

// Tokenize lowercases text and returns its maximal runs of ASCII letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// Vectorize returns the normalized term-frequency vector of text, assigning
// new dimensions to unseen tokens.
func (v *Vectorizer) Vectorize(text string) Vector {
	tokens := Tokenize(text)

	v.mu.Lock()
	counts := make(map[int]int, len(tokens))
	for _, t := range tokens {
		idx, ok := v.vocab[t]
		if !ok {
			idx = len(v.vocab)
			v.vocab[t] = idx
		}
		counts[idx]++
	}
	v.mu.Unlock()

	var sum float64
	for _, c := range counts {
		sum += float64(c * c)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}

	out := make(Vector, len(counts))
	for idx, c := range counts {
		out[idx] = float64(c) / norm
	}
	return out
}

// VectorizeQuery is Vectorize with a bounded cache in front. The returned
// vector may be shared and must not be modified.
func (v *Vectorizer) VectorizeQuery(text string) Vector {
	v.cacheMu.RLock()
	defer v.cacheMu.RUnlock()
	if v.queries == nil {
		return v.Vectorize(text)
	}
	if cached, ok := v.queries.Get(text); ok {
		if vec, ok := cached.(Vector); ok {
			return vec
		}
	}

	vec := v.Vectorize(text)
	v.queries.Set(text, vec, int64(len(vec))+1)
	return vec
}

// VocabularySize reports how many distinct tokens have been assigned a dimension.
func (v *Vectorizer) VocabularySize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.vocab)
}

// Close stops the query cache. The vectorizer keeps working uncached
// afterwards, and repeated calls are no-ops.
func (v *Vectorizer) Close() {
	v.cacheMu.Lock()
	defer v.cacheMu.Unlock()
	if v.queries == nil {
		return
	}
	v.queries.Close()
	v.queries = nil
}

// Cosine sums the products of dimensions present in both vectors.
// Both inputs are expected to be normalized.
func Cosine(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for d, w := range a {
		if bw, ok := b[d]; ok {
			sum += w * bw
		}
	}
	return sum
}
