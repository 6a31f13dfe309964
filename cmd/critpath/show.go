package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/critpath/pkg/critpath/store"
)

// errStoreMissing is returned by show when the --store database does not exist.
var errStoreMissing = errors.New("summary store does not exist")

type showFlags struct {
	storePath  string
	jsonOutput bool
}

func newShowCmd(e env) *cobra.Command {
	var flags showFlags

	cmd := &cobra.Command{
		Use:   "show [build-id]",
		Short: "List stored build summaries or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if _, err := os.Stat(flags.storePath); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("%w: %s", errStoreMissing, flags.storePath)
				}
				return fmt.Errorf("open store: %w", err)
			}
			s, err := store.NewSQLiteStore(flags.storePath)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.Close())
			}()

			if len(args) == 0 {
				summaries, err := s.List()
				if err != nil {
					return err
				}
				return writeSummaries(e.stdout, summaries)
			}

			info, err := s.Load(args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if flags.jsonOutput {
				return writeJSON(e.stdout, info)
			}
			return writeReport(e.stdout, args[0], info)
		},
	}

	cmd.Flags().StringVar(&flags.storePath, "store", "critpath.db", "SQLite database holding build summaries")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "print the summary as JSON")
	return cmd
}
