package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
)

const defaultExportWorkers = 4

// PartitionExport is the full dump of one partition in rank order.
type PartitionExport struct {
	Partition  ledger.Partition
	Entries    []ledger.Entry
	ExportedAt time.Time
}

// BackupExport bundles every partition with the purchase ledger, used for
// offline snapshots before risky maintenance.
type BackupExport struct {
	Partitions []PartitionExport
	Purchases  []economy.PurchaseRequest
	ExportedAt time.Time
}

// ExportService produces full dumps of the ledger and the points economy.
type ExportService struct {
	store     ledger.Store
	purchases economy.PurchaseRepository
	logger    *logging.Logger
	workers   int
	now       func() time.Time
}

func NewExportService(store ledger.Store, purchases economy.PurchaseRepository, workers int, logger *logging.Logger) *ExportService {
	if workers <= 0 {
		workers = defaultExportWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ExportService{
		store:     store,
		purchases: purchases,
		logger:    logger,
		workers:   workers,
		now:       time.Now,
	}
}

// ExportPartition dumps one partition in rank order.
func (s *ExportService) ExportPartition(ctx context.Context, partition ledger.Partition) (PartitionExport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportPartition")
	defer span.End()

	if err := partition.Validate(); err != nil {
		return PartitionExport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entries, err := s.store.List(ctx, ledger.Filter{Lobby: partition.Lobby, Window: partition.Window})
	if err != nil {
		return PartitionExport{}, fmt.Errorf("export partition %s: %w", partition, err)
	}

	return PartitionExport{
		Partition:  partition,
		Entries:    ledger.Rank(entries),
		ExportedAt: s.now().UTC(),
	}, nil
}

// ExportAllPartitions dumps every (lobby, window) partition, fanning the
// reads out over a bounded worker pool.
func (s *ExportService) ExportAllPartitions(ctx context.Context) ([]PartitionExport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportAllPartitions")
	defer span.End()

	partitions := allPartitions()
	results := make(chan PartitionExport, len(partitions))
	errs := make(chan error, len(partitions))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, partition := range partitions {
		partition := partition
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			export, exportErr := s.ExportPartition(ctx, partition)
			if exportErr != nil {
				errs <- exportErr
				return
			}
			results <- export
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit export task: %w", err)
		}
	}

	workers.Wait()
	close(results)
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}

	exports := make([]PartitionExport, 0, len(partitions))
	for export := range results {
		exports = append(exports, export)
	}

	sort.SliceStable(exports, func(i, j int) bool {
		if exports[i].Partition.Lobby != exports[j].Partition.Lobby {
			return exports[i].Partition.Lobby < exports[j].Partition.Lobby
		}
		return exports[i].Partition.Window < exports[j].Partition.Window
	})

	return exports, nil
}

// ExportPurchaseRequests dumps the full purchase ledger.
func (s *ExportService) ExportPurchaseRequests(ctx context.Context) ([]economy.PurchaseRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportPurchaseRequests")
	defer span.End()

	requests, err := s.purchases.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("export purchase requests: %w", err)
	}
	return requests, nil
}

// ExportBackup reads the ledger dump and the purchase dump concurrently and
// bundles them under one timestamp.
func (s *ExportService) ExportBackup(ctx context.Context) (BackupExport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportBackup")
	defer span.End()

	var (
		partitions    []PartitionExport
		purchases     []economy.PurchaseRequest
		partitionsErr error
		purchasesErr  error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		partitions, partitionsErr = s.ExportAllPartitions(ctx)
	})
	wg.Go(func() {
		purchases, purchasesErr = s.ExportPurchaseRequests(ctx)
	})
	wg.Wait()

	if partitionsErr != nil {
		return BackupExport{}, partitionsErr
	}
	if purchasesErr != nil {
		return BackupExport{}, purchasesErr
	}

	backup := BackupExport{
		Partitions: partitions,
		Purchases:  purchases,
		ExportedAt: s.now().UTC(),
	}

	s.logger.InfoContext(ctx, "backup exported",
		"partition_count", len(backup.Partitions),
		"purchase_count", len(backup.Purchases),
	)

	return backup, nil
}

func allPartitions() []ledger.Partition {
	windows := []ledger.Window{ledger.WindowWeekly, ledger.WindowMonthly}
	out := make([]ledger.Partition, 0, len(ledger.Lobbies)*len(windows))
	for _, lobby := range ledger.Lobbies {
		for _, window := range windows {
			out = append(out, ledger.Partition{Lobby: lobby, Window: window})
		}
	}
	return out
}
