package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
)

// RevertService undoes one ingestion batch as a compensating delete.
type RevertService struct {
	store       ledger.Store
	leaderboard *LeaderboardService
	logger      *logging.Logger
}

func NewRevertService(store ledger.Store, leaderboard *LeaderboardService, logger *logging.Logger) *RevertService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RevertService{
		store:       store,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// RevertResult reports what a revert removed. Reverted is false when no batch
// carried the id, which callers treat as an already-completed revert.
type RevertResult struct {
	BatchID   string
	Reverted  bool
	Partition ledger.Partition
	TeamCount int
}

// Revert atomically deletes the batch record and every entry it wrote.
// Reverting a batch twice succeeds; the second call finds nothing to remove.
func (s *RevertService) Revert(ctx context.Context, batchID string, actor string) (RevertResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RevertService.Revert")
	defer span.End()

	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return RevertResult{}, fmt.Errorf("%w: batch id is required", ErrInvalidInput)
	}

	records, err := s.store.ListBatches(ctx, ledger.Filter{BatchID: batchID})
	if err != nil {
		return RevertResult{}, fmt.Errorf("look up batch %s: %w", batchID, err)
	}
	if len(records) == 0 {
		s.logger.InfoContext(ctx, "revert skipped: batch not found", "batch_id", batchID, "actor", actor)
		return RevertResult{BatchID: batchID, Reverted: false}, nil
	}

	record := records[0]
	if err := s.store.RevertBatch(ctx, batchID); err != nil {
		return RevertResult{}, fmt.Errorf("revert batch %s: %w", batchID, err)
	}

	partition := ledger.Partition{Lobby: record.Lobby, Window: record.Window}
	if s.leaderboard != nil {
		s.leaderboard.InvalidatePartition(ctx, partition)
	}

	s.logger.InfoContext(ctx, "batch reverted",
		"batch_id", batchID,
		"partition", partition.String(),
		"team_count", record.TeamCount,
		"actor", actor,
	)

	return RevertResult{
		BatchID:   batchID,
		Reverted:  true,
		Partition: partition,
		TeamCount: record.TeamCount,
	}, nil
}

// ListBatches returns ingestion history, optionally narrowed to a partition.
func (s *RevertService) ListBatches(ctx context.Context, filter ledger.Filter) ([]ledger.BatchRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RevertService.ListBatches")
	defer span.End()

	if filter.Lobby != "" && !ledger.ValidLobby(filter.Lobby) {
		return nil, fmt.Errorf("%w: unknown lobby %q", ErrInvalidInput, filter.Lobby)
	}
	if filter.Window != "" && !ledger.ValidWindow(filter.Window) {
		return nil, fmt.Errorf("%w: unknown competition window %q", ErrInvalidInput, filter.Window)
	}

	records, err := s.store.ListBatches(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return records, nil
}
