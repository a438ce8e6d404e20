package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader is the part of *readline.Instance the REPL needs.
type LineReader interface {
	Readline() (string, error)
}

func newReadline(w io.Writer) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          w,
	})
}

// RunInteractive loops until EOF, interrupt, a blank line, "exit" or "quit".
func RunInteractive(ctx context.Context, h TurnHandler, rl LineReader, w io.Writer) error {
	fmt.Fprintln(w, "Interactive mode. Type your question and press Enter. Blank line or 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		question := strings.TrimSpace(line)
		switch strings.ToLower(question) {
		case "", "exit", "quit":
			return nil
		}

		res := h.Handle(ctx, question)
		fmt.Fprintf(w, "Agent:\n%s\n\n", res.Content)
	}
}
