package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/extraction"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
)

// IngestRow is one candidate team result supplied by an operator or an
// extractor. A nil Points derives the default score from kills.
type IngestRow struct {
	TeamName string
	Kills    int
	Points   *int
}

// IngestResult reports what one ingestion wrote.
type IngestResult struct {
	BatchID   string
	Partition ledger.Partition
	TeamCount int
}

// IngestionService replaces partition contents from manual input or from a
// scoreboard screenshot. Every write lands under a fresh batch id so it can
// be reverted as a unit.
type IngestionService struct {
	store       ledger.Store
	extractor   extraction.Extractor
	leaderboard *LeaderboardService
	logger      *logging.Logger
	now         func() time.Time
}

func NewIngestionService(store ledger.Store, extractor extraction.Extractor, leaderboard *LeaderboardService, logger *logging.Logger) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		store:       store,
		extractor:   extractor,
		leaderboard: leaderboard,
		logger:      logger,
		now:         time.Now,
	}
}

// Ingest atomically replaces the partition with the given rows. The previous
// contents survive untouched when any row fails validation or the write is
// rejected.
func (s *IngestionService) Ingest(ctx context.Context, partition ledger.Partition, rows []IngestRow, source ledger.Source, actor string) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	if err := partition.Validate(); err != nil {
		return IngestResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return IngestResult{}, fmt.Errorf("%w: at least one row is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	batchID := ledger.NewBatchID(source, now)

	entries := make([]ledger.Entry, 0, len(rows))
	for i, row := range rows {
		entry, err := buildEntry(partition, row, batchID, source, now)
		if err != nil {
			return IngestResult{}, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, i+1, err)
		}
		entries = append(entries, entry)
	}

	record := ledger.BatchRecord{
		BatchID:   batchID,
		Lobby:     partition.Lobby,
		Window:    partition.Window,
		TeamCount: len(entries),
		Source:    source,
		Actor:     actor,
		CreatedAt: now,
	}

	if err := s.store.ReplacePartition(ctx, partition, entries, record); err != nil {
		return IngestResult{}, fmt.Errorf("%w: replace partition %s: %v", ErrIngestionFailed, partition, err)
	}

	if s.leaderboard != nil {
		s.leaderboard.InvalidatePartition(ctx, partition)
	}

	s.logger.InfoContext(ctx, "partition ingested",
		"batch_id", batchID,
		"partition", partition.String(),
		"team_count", len(entries),
		"source", string(source),
	)

	return IngestResult{BatchID: batchID, Partition: partition, TeamCount: len(entries)}, nil
}

// AddSingleRow appends one row to the partition without replacing it. The
// row gets its own fresh MANUAL batch id but no batch record, so it does not
// show up in the revertable batch history.
func (s *IngestionService) AddSingleRow(ctx context.Context, partition ledger.Partition, row IngestRow, actor string) (ledger.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.AddSingleRow")
	defer span.End()

	if err := partition.Validate(); err != nil {
		return ledger.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	entry, err := buildEntry(partition, row, ledger.NewBatchID(ledger.SourceManual, now), ledger.SourceManual, now)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.store.Put(ctx, entry); err != nil {
		return ledger.Entry{}, fmt.Errorf("append row to partition %s: %w", partition, err)
	}

	if s.leaderboard != nil {
		s.leaderboard.InvalidatePartition(ctx, partition)
	}

	s.logger.InfoContext(ctx, "single row added",
		"partition", partition.String(),
		"team_name", entry.TeamName,
		"actor", actor,
	)

	return entry, nil
}

// IngestFromImage extracts candidate rows from a scoreboard screenshot and
// replaces the partition with them.
func (s *IngestionService) IngestFromImage(ctx context.Context, partition ledger.Partition, image []byte, contentType string, actor string) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestFromImage")
	defer span.End()

	if s.extractor == nil {
		return IngestResult{}, fmt.Errorf("%w: scoreboard extraction is not configured", ErrDependencyUnavailable)
	}
	if err := partition.Validate(); err != nil {
		return IngestResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(image) == 0 {
		return IngestResult{}, fmt.Errorf("%w: image payload is required", ErrInvalidInput)
	}

	extracted, err := s.extractor.ExtractScoreboard(ctx, image, contentType)
	if err != nil {
		return IngestResult{}, fmt.Errorf("%w: extract scoreboard: %v", ErrDependencyUnavailable, err)
	}
	if len(extracted) == 0 {
		return IngestResult{}, fmt.Errorf("%w: no rows recognized on the scoreboard", ErrInvalidInput)
	}
	if len(extracted) > extraction.MaxRows {
		extracted = extracted[:extraction.MaxRows]
	}

	rows := make([]IngestRow, 0, len(extracted))
	for _, r := range extracted {
		rows = append(rows, IngestRow{TeamName: r.TeamName, Kills: r.Kills, Points: r.Points})
	}

	return s.Ingest(ctx, partition, rows, ledger.SourceExtracted, actor)
}

func buildEntry(partition ledger.Partition, row IngestRow, batchID string, source ledger.Source, now time.Time) (ledger.Entry, error) {
	points := ledger.DefaultPoints(row.Kills)
	if row.Points != nil {
		points = *row.Points
	}

	entry := ledger.Entry{
		TeamName:  row.TeamName,
		Kills:     row.Kills,
		Points:    points,
		Lobby:     partition.Lobby,
		Window:    partition.Window,
		BatchID:   batchID,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entry.Validate(); err != nil {
		return ledger.Entry{}, err
	}
	return entry, nil
}
