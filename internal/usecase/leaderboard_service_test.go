package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/cache"
)

func TestLeaderboardService_ListFull_RanksEntries(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	ingestion := NewIngestionService(store, nil, nil, nil)
	service := NewLeaderboardService(store, nil)

	partition := ledger.Partition{Lobby: "35", Window: ledger.WindowWeekly}
	points := 80
	if _, err := ingestion.Ingest(context.Background(), partition, []IngestRow{
		{TeamName: "Bravo", Kills: 3},
		{TeamName: "Alpha", Kills: 8, Points: &points},
		{TeamName: "Charlie", Kills: 8, Points: &points},
	}, ledger.SourceManual, "admin-1"); err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	ranked, err := service.ListFull(context.Background(), partition)
	if err != nil {
		t.Fatalf("ListFull error: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ranked))
	}
	if ranked[0].TeamName != "Alpha" || ranked[0].Rank != 1 {
		t.Fatalf("unexpected rank 1 row: %+v", ranked[0])
	}
	// Same points and kills: insertion order breaks the tie.
	if ranked[1].TeamName != "Charlie" || ranked[1].Rank != 2 {
		t.Fatalf("unexpected rank 2 row: %+v", ranked[1])
	}
	if ranked[2].TeamName != "Bravo" || ranked[2].Rank != 3 {
		t.Fatalf("unexpected rank 3 row: %+v", ranked[2])
	}
}

func TestLeaderboardService_ListFull_RejectsUnknownPartition(t *testing.T) {
	t.Parallel()

	service := NewLeaderboardService(&stubLedgerStore{}, nil)
	if _, err := service.ListFull(context.Background(), ledger.Partition{Lobby: "99", Window: ledger.WindowWeekly}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeaderboardService_PublishedView_Truncates(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	ingestion := NewIngestionService(store, nil, nil, nil)
	service := NewLeaderboardService(store, nil)

	partition := ledger.Partition{Lobby: "45", Window: ledger.WindowMonthly}
	rows := make([]IngestRow, 0, 13)
	for i := 0; i < 13; i++ {
		rows = append(rows, IngestRow{TeamName: fmt.Sprintf("Team %02d", i+1), Kills: 13 - i})
	}
	if _, err := ingestion.Ingest(context.Background(), partition, rows, ledger.SourceManual, "admin-1"); err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	view, err := service.PublishedView(context.Background(), partition)
	if err != nil {
		t.Fatalf("PublishedView error: %v", err)
	}
	if len(view) != ledger.PublishedViewSize {
		t.Fatalf("expected %d rows, got %d", ledger.PublishedViewSize, len(view))
	}
	if view[0].TeamName != "Team 01" || view[9].TeamName != "Team 10" {
		t.Fatalf("unexpected view bounds: first=%s last=%s", view[0].TeamName, view[9].TeamName)
	}
}

func TestLeaderboardService_PublishedView_CacheInvalidatedByIngest(t *testing.T) {
	t.Parallel()

	store := &stubLedgerStore{}
	cacheStore := cache.NewStore(time.Minute)
	service := NewLeaderboardService(store, cacheStore)
	ingestion := NewIngestionService(store, nil, service, nil)
	ingestion.now = advancingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	partition := ledger.Partition{Lobby: "55", Window: ledger.WindowWeekly}
	if _, err := ingestion.Ingest(context.Background(), partition, []IngestRow{{TeamName: "First", Kills: 5}}, ledger.SourceManual, "admin-1"); err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	view, err := service.PublishedView(context.Background(), partition)
	if err != nil {
		t.Fatalf("PublishedView error: %v", err)
	}
	if len(view) != 1 || view[0].TeamName != "First" {
		t.Fatalf("unexpected view: %+v", view)
	}

	if _, err := ingestion.Ingest(context.Background(), partition, []IngestRow{{TeamName: "Second", Kills: 9}}, ledger.SourceManual, "admin-1"); err != nil {
		t.Fatalf("reingest error: %v", err)
	}

	view, err = service.PublishedView(context.Background(), partition)
	if err != nil {
		t.Fatalf("PublishedView after reingest error: %v", err)
	}
	if len(view) != 1 || view[0].TeamName != "Second" {
		t.Fatalf("expected fresh view after reingest, got %+v", view)
	}
}
