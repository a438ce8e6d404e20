package memory

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	doc := `
knowledge:
  - topic: neural networks
    content: Feedforward, convolutional, recurrent and transformer networks.
    confidence: 0.8
    tags: [ml, basics]
  - topic: reinforcement learning
    content: Agents learn from reward signals.
    source: textbook
    agent: curator
    confidence: 2
`
	s := newTestStore(t)
	ids, err := LoadSeed(s, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if len(ids) != 2 || s.KnowledgeCount() != 2 {
		t.Fatalf("expected 2 seeded records, got ids=%d table=%d", len(ids), s.KnowledgeCount())
	}

	first, _ := s.GetKnowledge(ids[0])
	if first.Source != "seed" || first.Agent != "seed" {
		t.Fatalf("expected default provenance, got source=%s agent=%s", first.Source, first.Agent)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "ml" {
		t.Fatalf("unexpected tags: %#v", first.Tags)
	}

	second, _ := s.GetKnowledge(ids[1])
	if second.Source != "textbook" || second.Agent != "curator" {
		t.Fatalf("unexpected provenance: %s/%s", second.Source, second.Agent)
	}
	if second.Confidence != 1 {
		t.Fatalf("expected clamped confidence, got %v", second.Confidence)
	}

	hits := s.SearchKnowledge("convolutional networks", 1, contractx.SearchHybrid)
	if len(hits) != 1 || hits[0].ID != ids[0] {
		t.Fatalf("seeded record not searchable: %#v", hits)
	}
}

func TestLoadSeedEmptyDocument(t *testing.T) {
	t.Parallel()

	ids, err := LoadSeed(newTestStore(t), strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %d", len(ids))
	}
}

func TestLoadSeedRejectsBlankEntry(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := LoadSeed(s, strings.NewReader("knowledge:\n  - topic: ok\n  - tags: [x]\n"))
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if s.KnowledgeCount() != 0 {
		t.Fatalf("expected nothing stored on invalid file, got %d", s.KnowledgeCount())
	}
}

func TestLoadSeedMalformedYAML(t *testing.T) {
	t.Parallel()

	if _, err := LoadSeed(newTestStore(t), strings.NewReader("knowledge: [unterminated")); err == nil {
		t.Fatal("expected decode error")
	}
}
