// Package report provides the persisted summary of a patrol analysis and
// the port for storing it.
package report

import (
	"context"
	"time"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
)

// Report summarises one baseline run and obstruction search.
type Report struct {
	ID         string          `json:"id"`
	Name       string          `json:"name,omitempty"`
	GridDigest string          `json:"grid_digest"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Start      guard.State     `json:"start"`
	Visited    int             `json:"visited"`
	PathLength int             `json:"path_length"`
	Candidates int             `json:"candidates"`
	Failed     int             `json:"failed"`
	LoopCount  int             `json:"loop_count"`
	Loops      []grid.Position `json:"loops"`
	Workers    int             `json:"workers"`
	Baseline   time.Duration   `json:"baseline_ns"`
	Search     time.Duration   `json:"search_ns"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store persists reports.
// Implementations may be in-memory, SQLite, BadgerDB or any other backend.
type Store interface {
	// Save persists a new report.
	Save(ctx context.Context, r *Report) error

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns reports matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Report, error)

	// Close releases backend resources.
	Close() error
}

// ListFilter specifies criteria for listing reports.
type ListFilter struct {
	// GridDigest restricts results to one grid layout (empty means all).
	GridDigest string

	// Limit is the maximum number of reports to return (0 = no limit).
	Limit int
}

// Matches reports whether r passes the filter, ignoring Limit.
func (f ListFilter) Matches(r *Report) bool {
	return f.GridDigest == "" || f.GridDigest == r.GridDigest
}
