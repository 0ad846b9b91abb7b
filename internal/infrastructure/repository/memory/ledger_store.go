package memory

import (
	"context"
	"sync"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
)

// LedgerStore keeps rank entries and batch history in process. Replace and
// revert hold the lock for their whole span, so readers never observe a
// half-applied write.
type LedgerStore struct {
	mu      sync.RWMutex
	entries []ledger.Entry
	batches []ledger.BatchRecord
	nextID  int64
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

func (r *LedgerStore) List(_ context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ledger.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *LedgerStore) Put(_ context.Context, entry ledger.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, entry)
	return nil
}

func (r *LedgerStore) DeleteMany(_ context.Context, filter ledger.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]ledger.Entry, 0, len(r.entries))
	removed := 0
	for _, e := range r.entries {
		if filter.Matches(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func (r *LedgerStore) ReplacePartition(_ context.Context, partition ledger.Partition, entries []ledger.Entry, record ledger.BatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]ledger.Entry, 0, len(r.entries)+len(entries))
	for _, e := range r.entries {
		if e.Lobby == partition.Lobby && e.Window == partition.Window {
			continue
		}
		kept = append(kept, e)
	}
	for _, e := range entries {
		r.nextID++
		e.ID = r.nextID
		kept = append(kept, e)
	}
	r.entries = kept
	r.batches = append([]ledger.BatchRecord{record}, r.batches...)
	return nil
}

func (r *LedgerStore) RevertBatch(_ context.Context, batchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]ledger.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.BatchID == batchID {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept

	records := make([]ledger.BatchRecord, 0, len(r.batches))
	for _, b := range r.batches {
		if b.BatchID == batchID {
			continue
		}
		records = append(records, b)
	}
	r.batches = records
	return nil
}

func (r *LedgerStore) ListBatches(_ context.Context, filter ledger.Filter) ([]ledger.BatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ledger.BatchRecord, 0, len(r.batches))
	for _, b := range r.batches {
		if filter.BatchID != "" && b.BatchID != filter.BatchID {
			continue
		}
		if filter.Lobby != "" && b.Lobby != filter.Lobby {
			continue
		}
		if filter.Window != "" && b.Window != filter.Window {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
