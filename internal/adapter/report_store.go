package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// ErrReportNotFound is returned when no report is stored for a project.
var ErrReportNotFound = errors.New("report not found")

const reportKeyPrefix = "report/"

// ReportStore persists final run responses keyed by project id.
type ReportStore interface {
	SaveReport(report m.TestGenerationResponse) error
	LoadReport(projectID string) (m.TestGenerationResponse, error)
	ListReports() ([]m.TestGenerationResponse, error)
	Close() error
}

// BadgerReportStore is a ReportStore backed by an embedded badger database.
type BadgerReportStore struct {
	db *badger.DB
}

// OpenBadgerReportStore opens (or creates) the store at dir. An empty dir
// opens an in-memory store.
func OpenBadgerReportStore(dir m.Path) (*BadgerReportStore, error) {
	var opts badger.Options

	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(string(dir), 0o750); err != nil {
			return nil, fmt.Errorf("create report directory %s: %w", dir, err)
		}

		opts = badger.DefaultOptions(string(dir))
	}

	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}

	return &BadgerReportStore{db: db}, nil
}

// SaveReport stores report, replacing any earlier report of the project.
func (s *BadgerReportStore) SaveReport(report m.TestGenerationResponse) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(reportKeyPrefix+report.ProjectID), data)
	})
}

// LoadReport returns the stored report of projectID.
func (s *BadgerReportStore) LoadReport(projectID string) (m.TestGenerationResponse, error) {
	var report m.TestGenerationResponse

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(reportKeyPrefix + projectID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrReportNotFound, projectID)
		}

		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &report)
		})
	})

	return report, err
}

// ListReports returns all stored reports, newest first.
func (s *BadgerReportStore) ListReports() ([]m.TestGenerationResponse, error) {
	var reports []m.TestGenerationResponse

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var report m.TestGenerationResponse

			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &report)
			}); err != nil {
				return err
			}

			reports = append(reports, report)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].FinishedAt.After(reports[j].FinishedAt)
	})

	return reports, nil
}

// Close releases the database.
func (s *BadgerReportStore) Close() error {
	return s.db.Close()
}
