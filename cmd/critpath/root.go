package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/critpath/pkg/critpath/config"
)

// env is the process surface the commands read from and write to.
type env struct {
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc
}

func defaultEnv() env {
	return env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: os.LookupEnv,
	}
}

type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd(e env) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "critpath",
		Short: "Compute build critical paths from recorded traces",
		Long: `critpath replays recorded build traces through the critical-path
listener, prints the resulting summary and optionally stores it for later
inspection with "critpath show".`,
		SilenceUsage: true,
	}
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format (text, json)")

	logger := func() (*slog.Logger, error) {
		return newLogger(e.stderr, flags.logLevel, flags.logFormat)
	}

	cmd.AddCommand(newReplayCmd(e, logger))
	cmd.AddCommand(newShowCmd(e))
	return cmd
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want text or json", format)
	}
}
