package capability

import (
	"slices"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

// Steps lists every executable step in canonical order.
var Steps = []contractx.Step{
	contractx.StepMemory,
	contractx.StepResearch,
	contractx.StepAnalysis,
}

var infos = map[contractx.Step]*schema.ToolInfo{
	contractx.StepMemory: {
		Name: string(contractx.StepMemory),
		Desc: "Recall earlier findings and conversation summaries from the shared knowledge store.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "What to recall", Required: true},
		}),
	},
	contractx.StepResearch: {
		Name: string(contractx.StepResearch),
		Desc: "Look up information about the question, reusing stored knowledge when available.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "Research question", Required: true},
		}),
	},
	contractx.StepAnalysis: {
		Name: string(contractx.StepAnalysis),
		Desc: "Analyze and summarize everything gathered so far against the question.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"goal": {Type: schema.String, Desc: "Goal of the analysis", Required: true},
		}),
	},
}

// Infos returns the step descriptions in canonical order.
func Infos() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(Steps))
	for _, s := range Steps {
		out = append(out, infos[s])
	}
	return out
}

// Lookup normalizes name and reports whether it names a known step.
func Lookup(name string) (contractx.Step, bool) {
	step := contractx.Step(strings.ToLower(strings.TrimSpace(name)))
	_, ok := infos[step]
	return step, ok
}

// Names returns the comma-separated step names, e.g. "memory, research, analysis".
func Names() string {
	names := make([]string, len(Steps))
	for i, s := range Steps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Inputs returns the sorted parameter names a step takes.
func Inputs(step contractx.Step) []string {
	info, ok := infos[step]
	if !ok || info.ParamsOneOf == nil {
		return nil
	}
	params, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil || params == nil {
		return nil
	}
	var keys []string
	for k := range params.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Describe renders one "- name: description (input: params)" line per step.
func Describe() string {
	var b strings.Builder
	for i, info := range Infos() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(info.Name)
		b.WriteString(": ")
		b.WriteString(info.Desc)
		if in := Inputs(contractx.Step(info.Name)); len(in) > 0 {
			b.WriteString(" (input: ")
			b.WriteString(strings.Join(in, ", "))
			b.WriteByte(')')
		}
	}
	return b.String()
}
