package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	orchestratorx "github.com/tanpawarit/stepwise-orchestrator/agent/agents/orchestrator"
	plannerx "github.com/tanpawarit/stepwise-orchestrator/agent/agents/planner"
	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	llmx "github.com/tanpawarit/stepwise-orchestrator/agent/llm"
	memoryx "github.com/tanpawarit/stepwise-orchestrator/agent/memory"
	configx "github.com/tanpawarit/stepwise-orchestrator/pkg/config"
	logx "github.com/tanpawarit/stepwise-orchestrator/pkg/logger"
)

const stepwiseLongDesc string = `Stepwise answers questions by planning and running memory recall,
research and analysis steps against a shared in-process knowledge store.

Examples:
  stepwise                                  Run the built-in scenarios into ./outputs
  stepwise --prompt "Compare CNN and RNN"   Answer a single question
  stepwise --interactive                    Start a REPL
  stepwise --seed knowledge.yaml --env .env`

const stepwiseShortDesc string = "Stepwise - multi-step question orchestrator"

// TurnHandler answers one question per call.
type TurnHandler interface {
	Handle(ctx context.Context, question string) contractx.Result
}

type stepwiseCommander struct {
	prompt      string
	interactive bool
	outDir      string
	outFile     string
	seedPath    string
	envFile     string
	debug       bool
}

func NewStepwiseCmd() *cobra.Command {
	cmder := &stepwiseCommander{}

	cmd := &cobra.Command{
		Use:           "stepwise",
		Short:         stepwiseShortDesc,
		Long:          stepwiseLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cmder.prompt, "prompt", "p", "", "Run a single turn with the given question")
	cmd.Flags().BoolVarP(&cmder.interactive, "interactive", "i", false, "Start a REPL (blank line, exit or quit ends it)")
	cmd.Flags().StringVar(&cmder.outDir, "out-dir", "outputs", "Directory for scenario outputs in batch mode")
	cmd.Flags().StringVar(&cmder.outFile, "out-file", "", "Optional file for the --prompt answer")
	cmd.Flags().StringVar(&cmder.seedPath, "seed", "", "YAML file of knowledge records to load before the first turn")
	cmd.Flags().StringVar(&cmder.envFile, "env", "", "Path to .env file")
	cmd.PersistentFlags().BoolVarP(&cmder.debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func (c *stepwiseCommander) run(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.debug {
		logx.Init(logx.Config{Debug: true})
	}
	configx.SetEnvFile(c.envFile)

	store := memoryx.NewStore()
	defer store.Close()

	coord, err := c.newCoordinator(ctx, store)
	if err != nil {
		return err
	}

	switch {
	case c.interactive:
		rl, err := newReadline(w)
		if err != nil {
			return fmt.Errorf("start readline: %w", err)
		}
		defer rl.Close()
		return RunInteractive(ctx, coord, rl, w)
	case strings.TrimSpace(c.prompt) != "":
		return RunPrompt(ctx, coord, c.prompt, c.outFile, w)
	default:
		return RunScenarios(ctx, coord, c.outDir, w)
	}
}

func (c *stepwiseCommander) newCoordinator(ctx context.Context, store *memoryx.Store) (*orchestratorx.Coordinator, error) {
	if err := loadSeedFile(store, c.seedPath); err != nil {
		return nil, err
	}

	collaborator, timeout := newCollaborator(ctx)
	planner, err := plannerx.New(collaborator, plannerx.WithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("build planner: %w", err)
	}

	return orchestratorx.New(store, planner, nil, orchestratorx.Config{})
}

func loadSeedFile(store *memoryx.Store, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	ids, err := memoryx.LoadSeed(store, f)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("records", len(ids)).Msg("seed.loaded")
	return nil
}

// newCollaborator never fails the command: any config or client problem
// leaves the planner on keyword rules.
func newCollaborator(ctx context.Context) (contractx.Collaborator, time.Duration) {
	cfg, err := configx.New[llmx.Config]("PLANNER")
	if err != nil {
		log.Warn().Err(err).Msg("planner.config_invalid")
		return nil, 0
	}
	if !cfg.Active() {
		return nil, cfg.Timeout
	}

	collaborator, err := plannerx.NewCollaborator(ctx, *cfg)
	if err != nil {
		log.Warn().Err(err).Msg("planner.collaborator_unavailable")
		return nil, cfg.Timeout
	}
	log.Info().Str("provider", string(cfg.Provider)).Str("model", cfg.Model).Msg("planner.collaborator_enabled")
	return collaborator, cfg.Timeout
}
