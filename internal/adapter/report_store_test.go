package adapter

import (
	"errors"
	"testing"
	"time"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

func openMemoryStore(t *testing.T) *BadgerReportStore {
	t.Helper()

	store, err := OpenBadgerReportStore("")
	if err != nil {
		t.Fatalf("OpenBadgerReportStore() error = %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestBadgerReportStore_SaveLoad(t *testing.T) {
	store := openMemoryStore(t)

	report := m.TestGenerationResponse{
		ProjectID:      "p-1",
		Status:         m.ResponseSuccess,
		RunStatus:      m.StatusSucceeded,
		GeneratedTests: []m.GeneratedTest{{Filename: "test_math.cpp", Content: "TEST(A, B) {}\n"}},
		CoverageReport: &m.CoverageReport{OverallCoverage: 0.9},
		Iterations:     2,
	}

	if err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err := store.LoadReport("p-1")
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}

	if got.Status != m.ResponseSuccess || got.Iterations != 2 || len(got.GeneratedTests) != 1 {
		t.Fatalf("LoadReport() = %+v", got)
	}

	if got.CoverageReport == nil || got.CoverageReport.OverallCoverage != 0.9 {
		t.Fatalf("coverage report lost: %+v", got.CoverageReport)
	}

	report.Status = m.ResponsePartial
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err = store.LoadReport("p-1")
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}

	if got.Status != m.ResponsePartial {
		t.Fatalf("SaveReport() must replace the earlier report, got %s", got.Status)
	}
}

func TestBadgerReportStore_NotFound(t *testing.T) {
	store := openMemoryStore(t)

	if _, err := store.LoadReport("missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestBadgerReportStore_ListNewestFirst(t *testing.T) {
	store := openMemoryStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	offsets := map[string]time.Duration{"old": 0, "new": 2 * time.Hour, "mid": time.Hour}

	for id, offset := range offsets {
		if err := store.SaveReport(m.TestGenerationResponse{ProjectID: id, FinishedAt: base.Add(offset)}); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}

	reports, err := store.ListReports()
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}

	var ids []string
	for _, r := range reports {
		ids = append(ids, r.ProjectID)
	}

	if len(ids) != 3 || ids[0] != "new" || ids[1] != "mid" || ids[2] != "old" {
		t.Fatalf("ListReports() order = %v", ids)
	}
}

func TestBadgerReportStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerReportStore(m.Path(dir))
	if err != nil {
		t.Fatalf("OpenBadgerReportStore() error = %v", err)
	}

	if err := store.SaveReport(m.TestGenerationResponse{ProjectID: "p-2", Status: m.ResponseError}); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerReportStore(m.Path(dir))
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadReport("p-2")
	if err != nil {
		t.Fatalf("LoadReport() after reopen error = %v", err)
	}

	if got.Status != m.ResponseError {
		t.Fatalf("LoadReport() = %+v", got)
	}
}
