// Package main is the entry point for the lumen CLI application.
// lumen drafts commit messages, explains changes and suggests git
// commands using a configurable AI provider.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumen-cli/lumen/internal/cmd"
	apperrors "github.com/lumen-cli/lumen/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if apperrors.IsVerbose() {
			fmt.Fprint(os.Stderr, apperrors.FormatErrorVerbose(err))
		} else {
			fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
			if apperrors.IsProviderError(err) || apperrors.IsConfigError(err) {
				fmt.Fprintln(os.Stderr, "  run with --verbose for details")
			}
		}
		stop()
		os.Exit(apperrors.GetExitCode(err))
	}
}
