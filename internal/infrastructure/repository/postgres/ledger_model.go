package postgres

import (
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
)

type rankEntryTableModel struct {
	ID        int64     `db:"id"`
	TeamName  string    `db:"team_name"`
	Kills     int       `db:"kills"`
	Points    int       `db:"points"`
	Lobby     string    `db:"lobby"`
	Window    string    `db:"competition_window"`
	BatchID   string    `db:"batch_id"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m rankEntryTableModel) toDomain() ledger.Entry {
	return ledger.Entry{
		ID:        m.ID,
		TeamName:  m.TeamName,
		Kills:     m.Kills,
		Points:    m.Points,
		Lobby:     m.Lobby,
		Window:    ledger.Window(m.Window),
		BatchID:   m.BatchID,
		Source:    ledger.Source(m.Source),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type rankEntryInsertModel struct {
	TeamName  string    `db:"team_name"`
	Kills     int       `db:"kills"`
	Points    int       `db:"points"`
	Lobby     string    `db:"lobby"`
	Window    string    `db:"competition_window"`
	BatchID   string    `db:"batch_id"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newRankEntryInsertModel(e ledger.Entry) rankEntryInsertModel {
	return rankEntryInsertModel{
		TeamName:  e.TeamName,
		Kills:     e.Kills,
		Points:    e.Points,
		Lobby:     e.Lobby,
		Window:    string(e.Window),
		BatchID:   e.BatchID,
		Source:    string(e.Source),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type batchHistoryTableModel struct {
	ID        int64     `db:"id"`
	BatchID   string    `db:"batch_id"`
	Lobby     string    `db:"lobby"`
	Window    string    `db:"competition_window"`
	TeamCount int       `db:"team_count"`
	Source    string    `db:"source"`
	Actor     string    `db:"actor"`
	CreatedAt time.Time `db:"created_at"`
}

func (m batchHistoryTableModel) toDomain() ledger.BatchRecord {
	return ledger.BatchRecord{
		BatchID:   m.BatchID,
		Lobby:     m.Lobby,
		Window:    ledger.Window(m.Window),
		TeamCount: m.TeamCount,
		Source:    ledger.Source(m.Source),
		Actor:     m.Actor,
		CreatedAt: m.CreatedAt,
	}
}

type batchHistoryInsertModel struct {
	BatchID   string    `db:"batch_id"`
	Lobby     string    `db:"lobby"`
	Window    string    `db:"competition_window"`
	TeamCount int       `db:"team_count"`
	Source    string    `db:"source"`
	Actor     string    `db:"actor"`
	CreatedAt time.Time `db:"created_at"`
}

func newBatchHistoryInsertModel(r ledger.BatchRecord) batchHistoryInsertModel {
	return batchHistoryInsertModel{
		BatchID:   r.BatchID,
		Lobby:     r.Lobby,
		Window:    string(r.Window),
		TeamCount: r.TeamCount,
		Source:    string(r.Source),
		Actor:     r.Actor,
		CreatedAt: r.CreatedAt,
	}
}
