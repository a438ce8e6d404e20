package orchestratornode

import "strings"

const defaultConfidence = 0.5

func Aggregate(in *GraphState) (*GraphState, error) {
	if err := requireState(in); err != nil {
		return nil, err
	}

	in.Content = strings.Join(in.Results, "\n\n")
	in.Confidence = MeanConfidence(in.Confidences)
	return in, nil
}

// MeanConfidence is the arithmetic mean, or 0.5 when no step reported one.
func MeanConfidence(values []float64) float64 {
	if len(values) == 0 {
		return defaultConfidence
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
