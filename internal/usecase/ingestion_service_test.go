package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/extraction"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
)

func TestIngestionService_Ingest_ReplacesPartition(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	service := NewIngestionService(store, nil, nil, nil)
	service.now = advancingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	partition := ledger.Partition{Lobby: "35", Window: ledger.WindowWeekly}

	first, err := service.Ingest(context.Background(), partition, []IngestRow{
		{TeamName: "Old Guard", Kills: 4},
	}, ledger.SourceManual, "admin-1")
	if err != nil {
		t.Fatalf("first ingest error: %v", err)
	}

	points := 120
	second, err := service.Ingest(context.Background(), partition, []IngestRow{
		{TeamName: "Alpha", Kills: 7},
		{TeamName: "Bravo", Kills: 3, Points: &points},
	}, ledger.SourceManual, "admin-1")
	if err != nil {
		t.Fatalf("second ingest error: %v", err)
	}
	if second.BatchID == first.BatchID {
		t.Fatalf("expected distinct batch ids, both were %s", second.BatchID)
	}
	if !strings.HasPrefix(second.BatchID, "MANUAL-") {
		t.Fatalf("unexpected batch id format: %s", second.BatchID)
	}
	if second.TeamCount != 2 {
		t.Fatalf("expected 2 teams, got %d", second.TeamCount)
	}

	entries, err := store.List(context.Background(), ledger.Filter{Lobby: "35", Window: ledger.WindowWeekly})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected old rows replaced, got %d rows", len(entries))
	}
	if entries[0].Points != 70 {
		t.Fatalf("expected derived points 70 for Alpha, got %d", entries[0].Points)
	}
	if entries[1].Points != 120 {
		t.Fatalf("expected explicit points kept for Bravo, got %d", entries[1].Points)
	}
}

func TestIngestionService_Ingest_RejectsWholeBatchOnBadRow(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	service := NewIngestionService(store, nil, nil, nil)

	partition := ledger.Partition{Lobby: "45", Window: ledger.WindowMonthly}
	if _, err := service.Ingest(context.Background(), partition, []IngestRow{
		{TeamName: "Keep Me", Kills: 5},
	}, ledger.SourceManual, "admin-1"); err != nil {
		t.Fatalf("seed ingest error: %v", err)
	}

	_, err := service.Ingest(context.Background(), partition, []IngestRow{
		{TeamName: "Good Row", Kills: 2},
		{TeamName: "", Kills: 9},
	}, ledger.SourceManual, "admin-1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	entries, _ := store.List(context.Background(), ledger.Filter{Lobby: "45", Window: ledger.WindowMonthly})
	if len(entries) != 1 || entries[0].TeamName != "Keep Me" {
		t.Fatalf("expected partition untouched after rejected batch, got %+v", entries)
	}
}

func TestIngestionService_Ingest_StoreFailureLeavesPartition(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{replaceErr: fmt.Errorf("connection reset")}
	service := NewIngestionService(store, nil, nil, nil)

	_, err := service.Ingest(context.Background(), ledger.Partition{Lobby: "35", Window: ledger.WindowWeekly}, []IngestRow{
		{TeamName: "Alpha", Kills: 1},
	}, ledger.SourceManual, "admin-1")
	if !errors.Is(err, ErrIngestionFailed) {
		t.Fatalf("expected ErrIngestionFailed, got %v", err)
	}
}

func TestIngestionService_AddSingleRow_AppendsWithFreshBatchID(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	service := NewIngestionService(store, nil, nil, nil)
	service.now = advancingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	partition := ledger.Partition{Lobby: "55", Window: ledger.WindowWeekly}
	seeded, err := service.Ingest(context.Background(), partition, []IngestRow{
		{TeamName: "Alpha", Kills: 7},
	}, ledger.SourceManual, "admin-1")
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	entry, err := service.AddSingleRow(context.Background(), partition, IngestRow{TeamName: "Walk-in", Kills: 2}, "admin-1")
	if err != nil {
		t.Fatalf("AddSingleRow error: %v", err)
	}
	if !strings.HasPrefix(entry.BatchID, "MANUAL-") {
		t.Fatalf("expected fresh MANUAL batch id on single row, got %q", entry.BatchID)
	}
	if entry.BatchID == seeded.BatchID {
		t.Fatalf("single row must not join the seeded batch %s", seeded.BatchID)
	}
	if entry.Points != 20 {
		t.Fatalf("expected derived points 20, got %d", entry.Points)
	}

	entries, _ := store.List(context.Background(), ledger.Filter{Lobby: "55", Window: ledger.WindowWeekly})
	if len(entries) != 2 {
		t.Fatalf("expected append, got %d rows", len(entries))
	}

	batches, _ := store.ListBatches(context.Background(), ledger.Filter{BatchID: entry.BatchID})
	if len(batches) != 0 {
		t.Fatalf("single row must not create a batch history record, got %+v", batches)
	}
}

func TestIngestionService_IngestFromImage(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	extractor := &stubExtractor{rows: []extraction.Row{
		{TeamName: "Scanned A", Kills: 6},
		{TeamName: "Scanned B", Kills: 2},
	}}
	service := NewIngestionService(store, extractor, nil, nil)

	result, err := service.IngestFromImage(context.Background(), ledger.Partition{Lobby: "35", Window: ledger.WindowMonthly}, []byte("png-bytes"), "image/png", "admin-2")
	if err != nil {
		t.Fatalf("IngestFromImage error: %v", err)
	}
	if !strings.HasPrefix(result.BatchID, "EXTRACTED-") {
		t.Fatalf("unexpected batch id: %s", result.BatchID)
	}
	if result.TeamCount != 2 {
		t.Fatalf("expected 2 teams, got %d", result.TeamCount)
	}
}

func TestIngestionService_IngestFromImage_CapsRows(t *testing.T) {
	t.Parallel()

	rows := make([]extraction.Row, 0, extraction.MaxRows+3)
	for i := 0; i < extraction.MaxRows+3; i++ {
		rows = append(rows, extraction.Row{TeamName: fmt.Sprintf("Team %d", i+1), Kills: i})
	}
	store := &stubLedgerStore{}
	service := NewIngestionService(store, &stubExtractor{rows: rows}, nil, nil)

	result, err := service.IngestFromImage(context.Background(), ledger.Partition{Lobby: "45", Window: ledger.WindowWeekly}, []byte("x"), "image/jpeg", "admin-2")
	if err != nil {
		t.Fatalf("IngestFromImage error: %v", err)
	}
	if result.TeamCount != extraction.MaxRows {
		t.Fatalf("expected cap at %d rows, got %d", extraction.MaxRows, result.TeamCount)
	}
}

func TestIngestionService_IngestFromImage_ExtractorDown(t *testing.T) {
	t.Parallel()

	service := NewIngestionService(&stubLedgerStore{}, &stubExtractor{err: fmt.Errorf("vision timeout")}, nil, nil)

	_, err := service.IngestFromImage(context.Background(), ledger.Partition{Lobby: "35", Window: ledger.WindowWeekly}, []byte("x"), "image/png", "admin-2")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
