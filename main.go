package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clix "github.com/tanpawarit/stepwise-orchestrator/pkg/cli"
	_ "github.com/tanpawarit/stepwise-orchestrator/pkg/logger/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := clix.NewStepwiseCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
