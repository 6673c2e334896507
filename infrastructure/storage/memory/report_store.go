// Package memory provides in-memory implementations of storage interfaces.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/felixgeelhaar/patrol-go/domain/report"
)

// reportEntry holds a deep copy of a report for storage.
type reportEntry struct {
	data []byte
}

// ReportStore is an in-memory implementation of report.Store.
type ReportStore struct {
	reports map[string]*reportEntry
	mu      sync.RWMutex
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*reportEntry),
	}
}

// Save persists a new report.
func (s *ReportStore) Save(ctx context.Context, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.ID == "" {
		return report.ErrInvalidReportID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[r.ID]; exists {
		return report.ErrReportExists
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	s.reports[r.ID] = &reportEntry{data: data}
	return nil
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(ctx context.Context, id string) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, report.ErrInvalidReportID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}

	var r report.Report
	if err := json.Unmarshal(entry.data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns reports matching the filter, newest first.
func (s *ReportStore) List(ctx context.Context, filter report.ListFilter) ([]*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*report.Report
	for _, entry := range s.reports {
		var r report.Report
		if err := json.Unmarshal(entry.data, &r); err != nil {
			continue
		}
		if filter.Matches(&r) {
			result = append(result, &r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Close is a no-op.
func (s *ReportStore) Close() error {
	return nil
}

// Ensure interface is implemented.
var _ report.Store = (*ReportStore)(nil)
