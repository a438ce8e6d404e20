package memory

import (
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	retrievalx "github.com/tanpawarit/stepwise-orchestrator/agent/retrieval"
)

const payloadTypeKnowledge = "knowledge"

var _ contractx.KnowledgeStore = (*Store)(nil)

// Store is the single owner of the conversation log, the knowledge table,
// the agent trace log and the retrieval index behind the knowledge table.
// Mutations are serialized; searches run concurrently.
type Store struct {
	mu sync.RWMutex

	conversation []contractx.ConversationEntry
	knowledge    map[string]contractx.KnowledgeRecord
	order        []string
	agentStates  []contractx.AgentExecutionTrace
	index        *retrievalx.Index
	sharedIndex  bool

	now func() time.Time
}

// StoreOption customizes Store.
type StoreOption func(*Store)

// WithVectorizer shares an existing vocabulary with the store's index.
func WithVectorizer(v *retrievalx.Vectorizer) StoreOption {
	return func(s *Store) {
		if v != nil {
			s.index = retrievalx.NewIndex(v)
			s.sharedIndex = true
		}
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty store. Call Close when done with it.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		knowledge: make(map[string]contractx.KnowledgeRecord, 64),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.index == nil {
		s.index = retrievalx.NewIndex(retrievalx.NewVectorizer())
	}
	return s
}

// Close stops the store's own vectorizer. A vectorizer passed in through
// WithVectorizer belongs to the caller and is left running.
func (s *Store) Close() {
	if s.sharedIndex {
		return
	}
	s.index.Close()
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

/* ------------------------------ Conversation ----------------------------- */

// AddMessage appends a conversation entry and returns its id.
func (s *Store) AddMessage(role contractx.Role, content string, metadata map[string]any) string {
	entry := contractx.ConversationEntry{
		ID:        newID("msg"),
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
		Metadata:  copyMap(metadata),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation = append(s.conversation, entry)
	return entry.ID
}

func (s *Store) GetConversation() []contractx.ConversationEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contractx.ConversationEntry, len(s.conversation))
	for i, e := range s.conversation {
		e.Metadata = copyMap(e.Metadata)
		out[i] = e
	}
	return out
}

/* ------------------------------- Knowledge ------------------------------- */

// AddKnowledge stores a knowledge record, indexes it for search and returns its id.
func (s *Store) AddKnowledge(in contractx.KnowledgeInput) string {
	tags := append([]string{}, in.Tags...)
	rec := contractx.KnowledgeRecord{
		ID:         newID("kn"),
		Topic:      in.Topic,
		Content:    in.Content,
		Source:     in.Source,
		Agent:      in.Agent,
		Timestamp:  s.now().UTC(),
		Confidence: clampConfidence(in.Confidence),
		Tags:       tags,
	}

	joinedTags := strings.Join(tags, " ")
	payload := map[string]any{
		"type":  payloadTypeKnowledge,
		"topic": rec.Topic,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.knowledge[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	s.index.Add(
		rec.ID,
		payload,
		rec.Topic+"\n"+rec.Content+"\n"+joinedTags,
		rec.Topic+" "+joinedTags+" "+rec.Content,
	)
	return rec.ID
}

func (s *Store) GetKnowledge(id string) (contractx.KnowledgeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.knowledge[id]
	if !ok {
		return contractx.KnowledgeRecord{}, false
	}
	rec.Tags = append([]string{}, rec.Tags...)
	return rec, true
}

func (s *Store) KnowledgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.knowledge)
}

// KnowledgeByTag lists records carrying tag in insertion order. An empty tag
// lists everything.
func (s *Store) KnowledgeByTag(tag string) []contractx.KnowledgeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contractx.KnowledgeRecord, 0, len(s.order))
	for _, id := range s.order {
		rec := s.knowledge[id]
		if tag != "" && !slices.Contains(rec.Tags, tag) {
			continue
		}
		rec.Tags = append([]string{}, rec.Tags...)
		out = append(out, rec)
	}
	return out
}

// SearchKnowledge runs the searches selected by mode, keeps the highest score
// seen per id, and returns at most k records ordered by that score.
func (s *Store) SearchKnowledge(query string, k int, mode contractx.SearchMode) []contractx.KnowledgeHit {
	if k <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []retrievalx.Hit
	if mode == contractx.SearchHybrid || mode == contractx.SearchVector {
		hits = append(hits, s.index.SimilaritySearch(query, k)...)
	}
	if mode == contractx.SearchHybrid || mode == contractx.SearchKeyword {
		hits = append(hits, s.index.KeywordSearch(query, k)...)
	}

	best := make(map[string]int, len(hits))
	out := make([]contractx.KnowledgeHit, 0, len(hits))
	for _, h := range hits {
		rec, ok := s.knowledge[h.ID]
		if !ok {
			continue
		}
		if i, seen := best[h.ID]; seen {
			if h.Score > out[i].Score {
				out[i].Score = h.Score
			}
			continue
		}
		rec.Tags = append([]string{}, rec.Tags...)
		best[h.ID] = len(out)
		out = append(out, contractx.KnowledgeHit{KnowledgeRecord: rec, Score: h.Score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

/* ------------------------------ Agent states ----------------------------- */

// AddAgentState appends an agent execution trace and returns its id.
func (s *Store) AddAgentState(agent string, task string, details map[string]any) string {
	st := contractx.AgentExecutionTrace{
		ID:        newID("st"),
		Agent:     agent,
		Task:      task,
		Details:   copyMap(details),
		Timestamp: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentStates = append(s.agentStates, st)
	return st.ID
}

// GetAgentStates returns the traces of agent, or all traces when agent is empty.
func (s *Store) GetAgentStates(agent string) []contractx.AgentExecutionTrace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contractx.AgentExecutionTrace, 0, len(s.agentStates))
	for _, st := range s.agentStates {
		if agent != "" && st.Agent != agent {
			continue
		}
		st.Details = copyMap(st.Details)
		out = append(out, st)
	}
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	maps.Copy(out, in)
	return out
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
