package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/mermaidflow/internal/cli"
	flowerrors "github.com/matzehuels/mermaidflow/pkg/errors"
)

// Exit codes.
const (
	exitError     = 1
	exitBadInput  = 2   // Input rows or options were rejected
	exitCancelled = 130 // Standard shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitCancelled)
		}
		code := flowerrors.GetCode(err)
		if code != "" {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(code))
	}
}

func exitCode(code flowerrors.Code) int {
	switch code {
	case flowerrors.ErrCodeInvalidInput, flowerrors.ErrCodeInvalidFormat,
		flowerrors.ErrCodeInvalidTheme, flowerrors.ErrCodeInvalidOrientation,
		flowerrors.ErrCodeMissingColumn, flowerrors.ErrCodeMalformedEdge:
		return exitBadInput
	}
	return exitError
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
