package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type scenario struct {
	File     string
	Question string
}

// Order matters: memory_test recalls what simple_query stored.
var scenarios = []scenario{
	{"simple_query.txt", "What are the main types of neural networks?"},
	{"complex_query.txt", "Research transformer architectures, analyze their computational efficiency, and summarize key trade-offs."},
	{"memory_test.txt", "What did we discuss about neural networks earlier?"},
	{"multi_step.txt", "Find recent papers on reinforcement learning, analyze their methodologies, and identify common challenges."},
	{"collaborative.txt", "Compare two machine-learning approaches and recommend which is better for our use case."},
}

// RunScenarios answers every built-in scenario in order against one handler
// and writes each answer to outDir.
func RunScenarios(ctx context.Context, h TurnHandler, outDir string, w io.Writer) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	for _, sc := range scenarios {
		fmt.Fprintf(w, "==== Question ====\n%s\n==================\n", sc.Question)
		res := h.Handle(ctx, sc.Question)
		if err := os.WriteFile(filepath.Join(outDir, sc.File), []byte(res.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", sc.File, err)
		}
		fmt.Fprintf(w, "%s\n\n", res.Content)
	}

	fmt.Fprintf(w, "All scenarios executed. See %s/ folder.\n", outDir)
	return nil
}

// RunPrompt answers a single question, optionally saving the answer.
func RunPrompt(ctx context.Context, h TurnHandler, prompt string, outFile string, w io.Writer) error {
	res := h.Handle(ctx, prompt)
	fmt.Fprintln(w, res.Content)

	if outFile == "" {
		return nil
	}
	if err := os.WriteFile(outFile, []byte(res.Content), 0o644); err != nil {
		return fmt.Errorf("write out file: %w", err)
	}
	return nil
}
