// Package store persists build summaries produced by the critical-path
// listener.
package store

import (
	"errors"
	"time"

	"github.com/randalmurphal/critpath/pkg/critpath"
)

// Store persists one BuildInfo per build ID.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the summary for a build, replacing any previous one.
	Save(buildID string, info *critpath.BuildInfo) error

	// Load retrieves a summary.
	// Returns ErrNotFound if the build has no summary.
	Load(buildID string) (*critpath.BuildInfo, error)

	// List returns metadata for every stored build, oldest first.
	List() ([]Summary, error)

	// Delete removes a build's summary. Returns nil if it doesn't exist.
	Delete(buildID string) error

	// Close releases any resources.
	Close() error
}

// Summary describes a stored build without its path entries.
type Summary struct {
	BuildID      string
	Backend      string
	NumNodes     uint64
	NumEdges     uint64
	PathLen      int
	CriticalPath time.Duration
	RecordedAt   time.Time
}

func summarize(buildID string, info *critpath.BuildInfo, at time.Time) Summary {
	return Summary{
		BuildID:      buildID,
		Backend:      info.Backend,
		NumNodes:     info.NumNodes,
		NumEdges:     info.NumEdges,
		PathLen:      len(info.CriticalPath),
		CriticalPath: info.TotalDuration(),
		RecordedAt:   at,
	}
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a build has no stored summary.
	ErrNotFound = errors.New("build summary not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("summary store closed")
)
