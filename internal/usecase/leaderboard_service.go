package usecase

import (
	"context"
	"fmt"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/cache"
)

// LeaderboardService serves ranked reads of a partition. The published view
// is cached; ingestion and revert invalidate the partition's keys.
type LeaderboardService struct {
	store ledger.Store
	cache *cache.Store
}

func NewLeaderboardService(store ledger.Store, cacheStore *cache.Store) *LeaderboardService {
	return &LeaderboardService{
		store: store,
		cache: cacheStore,
	}
}

// ListFull returns every row of the partition in rank order.
func (s *LeaderboardService) ListFull(ctx context.Context, partition ledger.Partition) ([]ledger.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ListFull")
	defer span.End()

	if err := partition.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entries, err := s.store.List(ctx, ledger.Filter{Lobby: partition.Lobby, Window: partition.Window})
	if err != nil {
		return nil, fmt.Errorf("list partition %s: %w", partition, err)
	}

	return ledger.Rank(entries), nil
}

// PublishedView returns the public top rows of the partition.
func (s *LeaderboardService) PublishedView(ctx context.Context, partition ledger.Partition) ([]ledger.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PublishedView")
	defer span.End()

	if err := partition.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.cache == nil {
		ranked, err := s.ListFull(ctx, partition)
		if err != nil {
			return nil, err
		}
		return ledger.PublishedView(ranked), nil
	}

	value, err := s.cache.GetOrLoad(ctx, publishedViewCacheKey(partition), func(ctx context.Context) (any, error) {
		ranked, loadErr := s.ListFull(ctx, partition)
		if loadErr != nil {
			return nil, loadErr
		}
		return ledger.PublishedView(ranked), nil
	})
	if err != nil {
		return nil, err
	}

	view, ok := value.([]ledger.Entry)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value for partition %s", partition)
	}
	return view, nil
}

// InvalidatePartition drops cached views after a write to the partition.
func (s *LeaderboardService) InvalidatePartition(ctx context.Context, partition ledger.Partition) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, publishedViewCacheKey(partition))
}

func publishedViewCacheKey(partition ledger.Partition) string {
	return "leaderboard:published:" + partition.Lobby + ":" + string(partition.Window)
}
