package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/critpath/pkg/critpath"
	"github.com/randalmurphal/critpath/pkg/critpath/config"
	"github.com/randalmurphal/critpath/pkg/critpath/replay"
	"github.com/randalmurphal/critpath/pkg/critpath/store"
)

type replayFlags struct {
	configPath  string
	longestPath bool
	storePath   string
	buildID     string
	timeScale   float64
	jsonOutput  bool
	otel        bool
}

func newReplayCmd(e env, logger func() (*slog.Logger, error)) *cobra.Command {
	var flags replayFlags

	cmd := &cobra.Command{
		Use:   "replay <trace.yaml>",
		Short: "Replay a recorded build trace and print its critical path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(e.lookup, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("longest-path") {
				settings.UseLongestPathGraph = flags.longestPath
			}
			return runReplay(cmd.Context(), e, log, args[0], settings, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML or JSON config file")
	cmd.Flags().BoolVar(&flags.longestPath, "longest-path", false, "use the exact longest-path backend")
	cmd.Flags().StringVar(&flags.storePath, "store", "", "SQLite database to store the summary in")
	cmd.Flags().StringVar(&flags.buildID, "build-id", "", "build ID (default: random UUID)")
	cmd.Flags().Float64Var(&flags.timeScale, "time-scale", 0, "sleep for recorded durations times this factor")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&flags.otel, "otel", false, "export spans and metrics to stderr")
	return cmd
}

// resolveSettings layers the config file over the environment.
func resolveSettings(lookup config.LookupFunc, flags replayFlags) (config.Settings, error) {
	settings, err := config.FromEnv(lookup)
	if err != nil {
		return settings, err
	}
	if flags.configPath == "" {
		return settings, nil
	}
	return config.OverlayFile(settings, flags.configPath)
}

func runReplay(ctx context.Context, e env, log *slog.Logger, path string, settings config.Settings, flags replayFlags) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	trace, err := replay.Load(path)
	if err != nil {
		return err
	}
	plan, err := trace.Compile(replay.WithLogger(log))
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}

	buildID := flags.buildID
	if buildID == "" {
		buildID = uuid.NewString()
	}

	scopeOpts := []critpath.Option{
		critpath.WithLogger(log),
		critpath.WithBuildID(buildID),
	}

	if flags.otel {
		tel, telErr := newTelemetry(e.stderr)
		if telErr != nil {
			return telErr
		}
		defer func() {
			err = errors.Join(err, tel.shutdown(context.WithoutCancel(ctx)))
		}()
		scopeOpts = append(scopeOpts,
			critpath.WithMetricsRecorder(tel.metrics),
			critpath.WithSpanManager(tel.spans),
		)
	}

	replayOpts := []replay.Option{
		replay.WithTimeScale(flags.timeScale),
		replay.WithScopeOptions(scopeOpts...),
	}
	if flags.storePath != "" {
		s, storeErr := store.NewSQLiteStore(flags.storePath)
		if storeErr != nil {
			return storeErr
		}
		defer func() {
			err = errors.Join(err, s.Close())
		}()
		replayOpts = append(replayOpts, replay.WithSink(store.NewSink(s)))
	}

	info, err := replay.Replay(ctx, plan, settings, replayOpts...)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("replay %s: no summary produced", path)
	}

	if flags.jsonOutput {
		return writeJSON(e.stdout, info)
	}
	return writeReport(e.stdout, buildID, info)
}
