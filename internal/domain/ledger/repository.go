package ledger

import "context"

// Filter selects entries by any combination of partition and batch id.
// Zero-valued fields are ignored.
type Filter struct {
	Lobby   string
	Window  Window
	BatchID string
}

func (f Filter) Matches(e Entry) bool {
	if f.Lobby != "" && e.Lobby != f.Lobby {
		return false
	}
	if f.Window != "" && e.Window != f.Window {
		return false
	}
	if f.BatchID != "" && e.BatchID != f.BatchID {
		return false
	}
	return true
}

// Store persists rank entries and batch records. Implementations must make
// ReplacePartition and RevertBatch all-or-nothing: a concurrent reader sees
// either the fully-old or the fully-new partition contents, never a mix.
type Store interface {
	// List returns entries matching the filter in insertion order.
	List(ctx context.Context, filter Filter) ([]Entry, error)
	// Put appends one entry.
	Put(ctx context.Context, entry Entry) error
	// DeleteMany removes matching entries and reports how many were removed.
	DeleteMany(ctx context.Context, filter Filter) (int, error)
	// ReplacePartition atomically clears the partition and writes the new
	// entries together with their batch record.
	ReplacePartition(ctx context.Context, partition Partition, entries []Entry, record BatchRecord) error
	// RevertBatch atomically deletes every entry and the batch record
	// carrying the id. A batch id with no matching rows is a no-op.
	RevertBatch(ctx context.Context, batchID string) error
	// ListBatches returns batch records, newest first. An empty filter
	// returns all records.
	ListBatches(ctx context.Context, filter Filter) ([]BatchRecord, error)
}
