package store

import (
	"context"
	"fmt"

	"github.com/randalmurphal/critpath/pkg/critpath"
)

// NewSink returns a critpath.Sink that saves every summary to s.
func NewSink(s Store) critpath.Sink {
	return critpath.SinkFunc(func(_ context.Context, buildID string, info *critpath.BuildInfo) error {
		if err := s.Save(buildID, info); err != nil {
			return fmt.Errorf("store summary for build %s: %w", buildID, err)
		}
		return nil
	})
}
