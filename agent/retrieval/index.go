package retrieval

import (
	"sort"
	"sync"
)

// Hit is a single search result.
type Hit struct {
	ID      string
	Payload map[string]any
	Score   float64
}

type item struct {
	id      string
	payload map[string]any
	vector  Vector
	text    string
}

// Index is an insertion-ordered, append-only retrieval index answering
// cosine-similarity and keyword-overlap queries over the same corpus.
type Index struct {
	mu         sync.RWMutex
	vectorizer *Vectorizer
	items      []item
}

// NewIndex builds an index over the given vectorizer. A nil vectorizer gets a fresh one.
func NewIndex(vectorizer *Vectorizer) *Index {
	if vectorizer == nil {
		vectorizer = NewVectorizer()
	}
	return &Index{vectorizer: vectorizer}
}

// Add vectorizes vectorText and appends the item. keywordText is the text
// used by KeywordSearch. Duplicate ids are not rejected here.
func (x *Index) Add(id string, payload map[string]any, vectorText string, keywordText string) {
	vec := x.vectorizer.Vectorize(vectorText)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.items = append(x.items, item{
		id:      id,
		payload: payload,
		vector:  vec,
		text:    keywordText,
	})
}

// Close releases the vectorizer's background resources. Indexes sharing the
// same vectorizer fall back to uncached queries.
func (x *Index) Close() {
	x.vectorizer.Close()
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

// SimilaritySearch returns the top-k items by cosine similarity to query.
// Ties keep insertion order.
func (x *Index) SimilaritySearch(query string, k int) []Hit {
	q := x.vectorizer.VectorizeQuery(query)

	x.mu.RLock()
	hits := make([]Hit, 0, len(x.items))
	for _, it := range x.items {
		hits = append(hits, Hit{ID: it.id, Payload: it.payload, Score: Cosine(q, it.vector)})
	}
	x.mu.RUnlock()

	return topK(hits, k)
}

// KeywordSearch scores items by the number of distinct query tokens found in
// their keyword text. Items without overlap are dropped.
func (x *Index) KeywordSearch(query string, k int) []Hit {
	queryTokens := tokenSet(query)

	x.mu.RLock()
	hits := make([]Hit, 0, len(x.items))
	for _, it := range x.items {
		itemTokens := tokenSet(it.text)
		overlap := 0
		for t := range queryTokens {
			if _, ok := itemTokens[t]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			hits = append(hits, Hit{ID: it.id, Payload: it.payload, Score: float64(overlap)})
		}
	}
	x.mu.RUnlock()

	return topK(hits, k)
}

func tokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func topK(hits []Hit, k int) []Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k < 0 {
		k = 0
	}
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
