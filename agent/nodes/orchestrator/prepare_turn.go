package orchestratornode

import (
	"fmt"
	"slices"
	"unicode/utf8"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

const logPreviewLimit = 200

type GraphInput struct {
	Question string
	Plan     contractx.Plan
}

type GraphOutput struct {
	Result contractx.Result
}

// GraphState is threaded through every node of a single turn. Results and
// Confidences grow in step order and always have equal length.
type GraphState struct {
	Question string
	Plan     contractx.Plan

	Results     []string
	Confidences []float64

	Content    string
	Confidence float64
}

func (s *GraphState) appendStep(content string, confidence float64) {
	s.Results = append(s.Results, content)
	s.Confidences = append(s.Confidences, confidence)
}

// PrepareTurn seeds the state. The question itself is never validated.
func PrepareTurn(in GraphInput) (*GraphState, error) {
	if len(in.Plan) == 0 {
		return nil, contractx.ErrPlanEmpty
	}
	return &GraphState{
		Question: in.Question,
		Plan:     slices.Clone(in.Plan),
	}, nil
}

func requireState(in *GraphState) error {
	if in == nil {
		return fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return nil
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= logPreviewLimit {
		return s
	}
	return string([]rune(s)[:logPreviewLimit])
}
