package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/patrol-go/domain/report"
)

// ReportStore is a BadgerDB-backed implementation of report.Store.
//
// Reports live under prefix+"reports:"+id. A second key per report,
// prefix+"created:"+inverted-timestamp+id, orders List newest first.
type ReportStore struct {
	db        *badger.DB
	keyPrefix string
	gcStop    chan struct{}
	gcWg      sync.WaitGroup
	closeOnce sync.Once
}

// NewReportStore creates a new BadgerDB report store with the given configuration.
func NewReportStore(cfg Config, opts ...Option) (*ReportStore, error) {
	// Apply options
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := NewReportStoreFromDB(db, cfg.KeyPrefix)

	// Start GC goroutine
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.startGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	return s, nil
}

// NewReportStoreFromDB creates a report store from an existing BadgerDB database.
func NewReportStoreFromDB(db *badger.DB, keyPrefix string) *ReportStore {
	return &ReportStore{
		db:        db,
		keyPrefix: keyPrefix,
		gcStop:    make(chan struct{}),
	}
}

// startGC starts the value log garbage collection goroutine.
func (s *ReportStore) startGC(interval time.Duration, discardRatio float64) {
	s.gcWg.Add(1)
	go func() {
		defer s.gcWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.gcStop:
				return
			case <-ticker.C:
				for {
					if err := s.db.RunValueLogGC(discardRatio); err != nil {
						break
					}
				}
			}
		}
	}()
}

// Key format: prefix:reports:id
func (s *ReportStore) reportKey(id string) []byte {
	return []byte(s.keyPrefix + "reports:" + id)
}

// Key format: prefix:created:inverted-unix-nanos (8 bytes, big-endian):id
func (s *ReportStore) createdKey(r *report.Report) []byte {
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, math.MaxUint64-uint64(r.CreatedAt.UnixNano()))
	key := append([]byte(s.keyPrefix+"created:"), ts...)
	key = append(key, ':')
	return append(key, r.ID...)
}

// Save persists a new report.
func (s *ReportStore) Save(ctx context.Context, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.ID == "" {
		return report.ErrInvalidReportID
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := s.reportKey(r.ID)

		_, err := txn.Get(key)
		if err == nil {
			return report.ErrReportExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.SetEntry(badger.NewEntry(key, data)); err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(s.createdKey(r), []byte(r.ID)))
	})
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(ctx context.Context, id string) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, report.ErrInvalidReportID
	}

	var r report.Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.reportKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return report.ErrReportNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns reports matching the filter, newest first.
func (s *ReportStore) List(ctx context.Context, filter report.ListFilter) ([]*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reports []*report.Report

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(s.keyPrefix + "created:")

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if filter.Limit > 0 && len(reports) >= filter.Limit {
				break
			}

			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			item, err := txn.Get(s.reportKey(string(id)))
			if err != nil {
				continue // Index entry without a report
			}

			var r report.Report
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				continue // Skip malformed entries
			}

			if filter.Matches(&r) {
				reports = append(reports, &r)
			}
		}

		return nil
	})

	return reports, err
}

// Close stops GC and closes the database.
func (s *ReportStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.gcStop)
		s.gcWg.Wait()
		err = s.db.Close()
	})
	return err
}

// Ensure interface is implemented.
var _ report.Store = (*ReportStore)(nil)
