package memory

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const defaultSeedSource = "seed"

type seedFile struct {
	Knowledge []contractx.KnowledgeInput `yaml:"knowledge"`
}

// LoadSeed reads a YAML document of the form
//
//	knowledge:
//	  - topic: ...
//	    content: ...
//	    confidence: 0.7
//	    tags: [a, b]
//
// and adds every entry to the store. It returns the ids in file order.
func LoadSeed(s *Store, r io.Reader) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: store is nil", contractx.ErrValidation)
	}

	var doc seedFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	for i, in := range doc.Knowledge {
		if strings.TrimSpace(in.Topic) == "" && strings.TrimSpace(in.Content) == "" {
			return nil, fmt.Errorf("%w: seed entry %d has neither topic nor content", contractx.ErrValidation, i)
		}
	}

	ids := make([]string, 0, len(doc.Knowledge))
	for _, in := range doc.Knowledge {
		if strings.TrimSpace(in.Source) == "" {
			in.Source = defaultSeedSource
		}
		if strings.TrimSpace(in.Agent) == "" {
			in.Agent = defaultSeedSource
		}
		ids = append(ids, s.AddKnowledge(in))
	}
	return ids, nil
}
