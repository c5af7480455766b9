package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wallplan/internal/cli"
	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// Exit codes.
const (
	exitFailure     = 1
	exitBadInput    = 2   // project, options or layout rejected
	exitInterrupted = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if setup == nil {
			return nil
		}
		return setup(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps err to the process exit status. Input, placement and IMAG
// pairing errors exit with exitBadInput.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch code := errs.GetCode(err); {
	case code == "":
		return exitFailure
	case strings.HasPrefix(string(code), "INVALID_"), strings.HasPrefix(string(code), "UNKNOWN_"):
		return exitBadInput
	case code == errs.ErrCodeOutOfBounds, code == errs.ErrCodeOverlap,
		code == errs.ErrCodeMirrorLink, code == errs.ErrCodeCircuitMismatch:
		return exitBadInput
	}
	return exitFailure
}
