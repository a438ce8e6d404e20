package memory

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	retrievalx "github.com/tanpawarit/stepwise-orchestrator/agent/retrieval"
)

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	s := NewStore(opts...)
	t.Cleanup(s.Close)
	return s
}

func fixedClock() func() time.Time {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestAddMessageAppendsInOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, WithClock(fixedClock()))
	id1 := s.AddMessage(contractx.RoleUser, "hello", nil)
	id2 := s.AddMessage(contractx.RoleManager, "hi", map[string]any{"confidence": 0.7})

	if id1 == id2 {
		t.Fatalf("expected unique ids, got %s twice", id1)
	}
	if !strings.HasPrefix(id1, "msg_") || len(id1) != len("msg_")+12 {
		t.Fatalf("unexpected id format: %s", id1)
	}

	conv := s.GetConversation()
	if len(conv) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(conv))
	}
	if conv[0].Role != contractx.RoleUser || conv[1].Role != contractx.RoleManager {
		t.Fatalf("unexpected roles: %s, %s", conv[0].Role, conv[1].Role)
	}
	if conv[1].Metadata["confidence"] != 0.7 {
		t.Fatalf("unexpected metadata: %#v", conv[1].Metadata)
	}
	if !conv[0].Timestamp.Equal(fixedClock()()) {
		t.Fatalf("unexpected timestamp: %s", conv[0].Timestamp)
	}
}

func TestGetConversationReturnsCopies(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddMessage(contractx.RoleUser, "question", map[string]any{"k": "v"})

	first := s.GetConversation()
	second := s.GetConversation()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected equal snapshots:\n%#v\n%#v", first, second)
	}

	first[0].Content = "mutated"
	first[0].Metadata["k"] = "mutated"
	_ = append(first, contractx.ConversationEntry{ID: "x"})

	again := s.GetConversation()
	if again[0].Content != "question" || again[0].Metadata["k"] != "v" || len(again) != 1 {
		t.Fatalf("internal state was mutated: %#v", again)
	}
}

func TestGetAgentStatesFilterAndCopies(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	s.AddAgentState("research", "q1", map[string]any{"confidence": 0.6})
	s.AddAgentState("analysis", "q1", map[string]any{"confidence": 0.55})
	s.AddAgentState("research", "q2", nil)

	all := s.GetAgentStates("")
	if len(all) != 3 {
		t.Fatalf("expected 3 states, got %d", len(all))
	}
	if !reflect.DeepEqual(all, s.GetAgentStates("")) {
		t.Fatal("expected repeated reads to be equal")
	}

	research := s.GetAgentStates("research")
	if len(research) != 2 || research[0].Task != "q1" || research[1].Task != "q2" {
		t.Fatalf("unexpected research states: %#v", research)
	}

	research[0].Details["confidence"] = 0.0
	if s.GetAgentStates("research")[0].Details["confidence"] != 0.6 {
		t.Fatal("internal details were mutated")
	}
}

func TestAddKnowledgeStoresAndIndexes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	tags := []string{"b", "a", "b"}
	id := s.AddKnowledge(contractx.KnowledgeInput{
		Topic:      "neural networks",
		Content:    "CNNs, RNNs and transformers",
		Source:     "seed",
		Agent:      "research",
		Confidence: 1.4,
		Tags:       tags,
	})
	tags[0] = "mutated"

	rec, ok := s.GetKnowledge(id)
	if !ok {
		t.Fatalf("GetKnowledge(%s) not found", id)
	}
	if !strings.HasPrefix(rec.ID, "kn_") {
		t.Fatalf("unexpected id: %s", rec.ID)
	}
	if rec.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", rec.Confidence)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"b", "a", "b"}) {
		t.Fatalf("tags must keep order and duplicates, got %#v", rec.Tags)
	}
	if s.index.Len() != 1 || s.KnowledgeCount() != 1 {
		t.Fatalf("table and index out of sync: index=%d table=%d", s.index.Len(), s.KnowledgeCount())
	}
}

func TestSearchKnowledgeModes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	nn := s.AddKnowledge(contractx.KnowledgeInput{Topic: "neural networks", Content: "layers of neurons", Confidence: 0.7})
	s.AddKnowledge(contractx.KnowledgeInput{Topic: "cooking", Content: "pasta recipes", Confidence: 0.5})

	keyword := s.SearchKnowledge("neural networks", 5, contractx.SearchKeyword)
	if len(keyword) != 1 || keyword[0].ID != nn {
		t.Fatalf("unexpected keyword hits: %#v", keyword)
	}
	if keyword[0].Score != 2 {
		t.Fatalf("keyword score = %v, want 2", keyword[0].Score)
	}

	vector := s.SearchKnowledge("neural networks", 5, contractx.SearchVector)
	if len(vector) != 2 {
		t.Fatalf("expected both records from vector search, got %d", len(vector))
	}
	if vector[0].ID != nn || vector[0].Score <= 0 || vector[0].Score >= 1 {
		t.Fatalf("unexpected top vector hit: %#v", vector[0])
	}
	if vector[1].Score != 0 {
		t.Fatalf("expected zero score for unrelated record, got %v", vector[1].Score)
	}
}

func TestSearchKnowledgeKeepsMaxScore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id := s.AddKnowledge(contractx.KnowledgeInput{Topic: "transformer efficiency", Content: "attention cost grows quadratically", Tags: []string{"summary"}})

	vector := s.SearchKnowledge("transformer efficiency", 5, contractx.SearchVector)
	keyword := s.SearchKnowledge("transformer efficiency", 5, contractx.SearchKeyword)
	hybrid := s.SearchKnowledge("transformer efficiency", 5, contractx.SearchHybrid)

	if len(hybrid) != 1 || hybrid[0].ID != id {
		t.Fatalf("expected a single deduplicated hit, got %#v", hybrid)
	}
	if vector[0].Score == keyword[0].Score {
		t.Fatalf("test needs differing scores, both %v", vector[0].Score)
	}
	want := max(vector[0].Score, keyword[0].Score)
	if hybrid[0].Score != want {
		t.Fatalf("hybrid score = %v, want %v", hybrid[0].Score, want)
	}
}

func TestSearchKnowledgeRawOverlapTiesPerfectCosine(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	semantic := s.AddKnowledge(contractx.KnowledgeInput{Topic: "reinforcement", Content: "learning"})
	overlap := s.AddKnowledge(contractx.KnowledgeInput{Topic: "reinforcement learning agents", Content: strings.Repeat("filler ", 30)})

	hits := s.SearchKnowledge("reinforcement learning", 2, contractx.SearchHybrid)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score != 2 || hits[1].Score != 2 {
		t.Fatalf("expected both hits to carry keyword score 2, got %v and %v", hits[0].Score, hits[1].Score)
	}
	if hits[0].ID != semantic || hits[1].ID != overlap {
		t.Fatalf("expected stable order on equal scores, got %s, %s", hits[0].ID, hits[1].ID)
	}
}

func TestSearchKnowledgeBoundsAndUnknownIDs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 8; i++ {
		s.AddKnowledge(contractx.KnowledgeInput{Topic: fmt.Sprintf("topic %d", i), Content: "shared words"})
	}
	s.index.Add("orphan", nil, "shared words", "shared words")

	for _, mode := range []contractx.SearchMode{contractx.SearchHybrid, contractx.SearchVector, contractx.SearchKeyword} {
		hits := s.SearchKnowledge("shared words", 3, mode)
		if len(hits) > 3 {
			t.Fatalf("mode=%s returned %d hits, want <= 3", mode, len(hits))
		}
		for _, h := range hits {
			if _, ok := s.GetKnowledge(h.ID); !ok {
				t.Fatalf("mode=%s returned unknown id %s", mode, h.ID)
			}
		}
	}

	if hits := s.SearchKnowledge("shared words", 0, contractx.SearchHybrid); len(hits) != 0 {
		t.Fatalf("expected no hits for k=0, got %d", len(hits))
	}
	if hits := newTestStore(t).SearchKnowledge("anything", 5, contractx.SearchHybrid); len(hits) != 0 {
		t.Fatalf("expected no hits on empty store, got %d", len(hits))
	}
}

func TestStoresDoNotShareVocabularyUnlessWired(t *testing.T) {
	t.Parallel()

	shared := retrievalx.NewVectorizer()
	t.Cleanup(shared.Close)
	a := newTestStore(t, WithVectorizer(shared))
	b := newTestStore(t, WithVectorizer(shared))
	c := newTestStore(t)

	a.AddKnowledge(contractx.KnowledgeInput{Topic: "alpha", Content: "beta"})
	before := shared.VocabularySize()
	b.AddKnowledge(contractx.KnowledgeInput{Topic: "alpha", Content: "gamma"})
	if shared.VocabularySize() != before+1 {
		t.Fatalf("expected shared vocabulary to grow by one, got %d -> %d", before, shared.VocabularySize())
	}

	c.AddKnowledge(contractx.KnowledgeInput{Topic: "delta"})
	if shared.VocabularySize() != before+1 {
		t.Fatal("independent store leaked into shared vocabulary")
	}
}

func TestStoreConcurrentWritesAndSearches(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.AddKnowledge(contractx.KnowledgeInput{Topic: fmt.Sprintf("topic%d", i), Content: "common"})
			s.AddMessage(contractx.RoleAgent, "note", nil)
		}(i)
		go func() {
			defer wg.Done()
			s.SearchKnowledge("common", 5, contractx.SearchHybrid)
		}()
	}
	wg.Wait()

	if s.KnowledgeCount() != 16 || s.index.Len() != 16 {
		t.Fatalf("expected 16 records and vectors, got %d and %d", s.KnowledgeCount(), s.index.Len())
	}
	if len(s.GetConversation()) != 16 {
		t.Fatalf("expected 16 messages, got %d", len(s.GetConversation()))
	}
}

func TestKnowledgeByTagKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first := s.AddKnowledge(contractx.KnowledgeInput{Topic: "a", Tags: []string{"summary"}})
	s.AddKnowledge(contractx.KnowledgeInput{Topic: "b", Tags: []string{"research"}})
	third := s.AddKnowledge(contractx.KnowledgeInput{Topic: "c", Tags: []string{"x", "summary"}})

	got := s.KnowledgeByTag("summary")
	if len(got) != 2 || got[0].ID != first || got[1].ID != third {
		t.Fatalf("unexpected summaries: %#v", got)
	}
	if all := s.KnowledgeByTag(""); len(all) != 3 {
		t.Fatalf("expected all records, got %d", len(all))
	}

	got[0].Tags[0] = "mutated"
	if again := s.KnowledgeByTag("summary"); again[0].Tags[0] != "summary" {
		t.Fatal("KnowledgeByTag() must return copies")
	}
}

func TestStoreCloseStopsCacheGoroutines(t *testing.T) {
	// Not parallel: counts process-wide goroutines.
	before := runtime.NumGoroutine()

	stores := make([]*Store, 50)
	for i := range stores {
		stores[i] = NewStore()
		stores[i].AddKnowledge(contractx.KnowledgeInput{Topic: "tea", Content: "green tea"})
		stores[i].SearchKnowledge("green", 3, contractx.SearchVector)
	}
	for _, s := range stores {
		s.Close()
		s.Close()
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before+5 {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines after Close = %d, before = %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStoreCloseLeavesSharedVectorizerRunning(t *testing.T) {
	t.Parallel()

	shared := retrievalx.NewVectorizer()
	t.Cleanup(shared.Close)

	a := NewStore(WithVectorizer(shared))
	a.AddKnowledge(contractx.KnowledgeInput{Topic: "espresso", Content: "coffee"})
	a.Close()

	b := newTestStore(t, WithVectorizer(shared))
	b.AddKnowledge(contractx.KnowledgeInput{Topic: "espresso", Content: "coffee"})
	hits := b.SearchKnowledge("espresso", 1, contractx.SearchVector)
	if len(hits) != 1 || hits[0].Score < 0.99 {
		t.Fatalf("SearchKnowledge() after sibling Close = %#v", hits)
	}
	if got := a.SearchKnowledge("espresso", 1, contractx.SearchVector); len(got) != 1 {
		t.Fatalf("closed store SearchKnowledge() = %#v, want one hit", got)
	}
}
