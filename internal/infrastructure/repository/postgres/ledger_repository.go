package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	qb "github.com/Raushanritik30891/zyro-sub000/internal/platform/querybuilder"
)

// LedgerStore keeps rank entries and batch history in postgres. Partition
// replacement and batch revert run as single transactions.
type LedgerStore struct {
	db *sqlx.DB
}

func NewLedgerStore(db *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func entryConditions(filter ledger.Filter) []qb.Condition {
	var conditions []qb.Condition
	if filter.Lobby != "" {
		conditions = append(conditions, qb.Eq("lobby", filter.Lobby))
	}
	if filter.Window != "" {
		conditions = append(conditions, qb.Eq("competition_window", string(filter.Window)))
	}
	if filter.BatchID != "" {
		conditions = append(conditions, qb.Eq("batch_id", filter.BatchID))
	}
	return conditions
}

func (r *LedgerStore) List(ctx context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	query, args, err := qb.Select("*").From("rank_entries").
		Where(entryConditions(filter)...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rank entries query: %w", err)
	}

	var rows []rankEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rank entries: %w", err)
	}

	out := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LedgerStore) Put(ctx context.Context, entry ledger.Entry) error {
	query, args, err := qb.InsertModel("rank_entries", newRankEntryInsertModel(entry), "")
	if err != nil {
		return fmt.Errorf("build insert rank entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert rank entry team=%s: %w", entry.TeamName, err)
	}
	return nil
}

func (r *LedgerStore) DeleteMany(ctx context.Context, filter ledger.Filter) (int, error) {
	conditions := entryConditions(filter)
	if len(conditions) == 0 {
		return 0, fmt.Errorf("delete rank entries requires a filter")
	}

	query, args, err := qb.DeleteFrom("rank_entries").Where(conditions...).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete rank entries query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete rank entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted rank entries: %w", err)
	}
	return int(affected), nil
}

func (r *LedgerStore) ReplacePartition(ctx context.Context, partition ledger.Partition, entries []ledger.Entry, record ledger.BatchRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace partition: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("rank_entries").
		Where(
			qb.Eq("lobby", partition.Lobby),
			qb.Eq("competition_window", string(partition.Window)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear partition query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear partition %s: %w", partition, err)
	}

	for _, entry := range entries {
		query, args, err := qb.InsertModel("rank_entries", newRankEntryInsertModel(entry), "")
		if err != nil {
			return fmt.Errorf("build insert rank entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert rank entry team=%s batch=%s: %w", entry.TeamName, record.BatchID, err)
		}
	}

	recordQuery, recordArgs, err := qb.InsertModel("batch_history", newBatchHistoryInsertModel(record), "")
	if err != nil {
		return fmt.Errorf("build insert batch record query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, recordQuery, recordArgs...); err != nil {
		return fmt.Errorf("insert batch record %s: %w", record.BatchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace partition tx: %w", err)
	}
	return nil
}

func (r *LedgerStore) RevertBatch(ctx context.Context, batchID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx revert batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entriesQuery, entriesArgs, err := qb.DeleteFrom("rank_entries").
		Where(qb.Eq("batch_id", batchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete batch entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, entriesQuery, entriesArgs...); err != nil {
		return fmt.Errorf("delete entries batch=%s: %w", batchID, err)
	}

	recordQuery, recordArgs, err := qb.DeleteFrom("batch_history").
		Where(qb.Eq("batch_id", batchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete batch record query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, recordQuery, recordArgs...); err != nil {
		return fmt.Errorf("delete batch record %s: %w", batchID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit revert batch tx: %w", err)
	}
	return nil
}

func (r *LedgerStore) ListBatches(ctx context.Context, filter ledger.Filter) ([]ledger.BatchRecord, error) {
	var conditions []qb.Condition
	if filter.Lobby != "" {
		conditions = append(conditions, qb.Eq("lobby", filter.Lobby))
	}
	if filter.Window != "" {
		conditions = append(conditions, qb.Eq("competition_window", string(filter.Window)))
	}
	if filter.BatchID != "" {
		conditions = append(conditions, qb.Eq("batch_id", filter.BatchID))
	}

	query, args, err := qb.Select("*").From("batch_history").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list batch history query: %w", err)
	}

	var rows []batchHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list batch history: %w", err)
	}

	out := make([]ledger.BatchRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
