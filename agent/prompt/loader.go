package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	capabilityx "github.com/tanpawarit/stepwise-orchestrator/agent/capability"
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

var (
	//go:embed template/planner.txt
	plannerRaw string

	plannerTmpl = template.Must(template.New("planner").Parse(plannerRaw))
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Planner string
}

// LoadPromptSet renders the embedded templates against the capability catalog.
func LoadPromptSet() (PromptSet, error) {
	var buf bytes.Buffer
	if err := plannerTmpl.Execute(&buf, map[string]string{
		"Names":        capabilityx.Names(),
		"Descriptions": capabilityx.Describe(),
	}); err != nil {
		return PromptSet{}, fmt.Errorf("%w: render planner prompt: %v", contractx.ErrPromptMissing, err)
	}

	planner := strings.TrimSpace(buf.String())
	if planner == "" {
		return PromptSet{}, fmt.Errorf("%w: planner", contractx.ErrPromptMissing)
	}
	return PromptSet{Planner: planner}, nil
}

// PlannerUserMessage formats the question the way the planner prompt expects it.
func PlannerUserMessage(question string) string {
	return "Question: " + question + "\nPlan:"
}
