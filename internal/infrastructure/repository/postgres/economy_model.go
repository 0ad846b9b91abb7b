package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
)

type accountTableModel struct {
	ID                 int64        `db:"id"`
	UserID             string       `db:"user_id"`
	DisplayName        string       `db:"display_name"`
	InGameID           string       `db:"in_game_id"`
	TeamRoster         string       `db:"team_roster"`
	PointsBalance      int          `db:"points_balance"`
	IsPremium          bool         `db:"is_premium"`
	PremiumActivatedAt sql.NullTime `db:"premium_activated_at"`
	LastProfileEditAt  sql.NullTime `db:"last_profile_edit_at"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
}

func (m accountTableModel) toDomain() economy.Account {
	return economy.Account{
		UserID:             m.UserID,
		DisplayName:        m.DisplayName,
		InGameID:           m.InGameID,
		TeamRoster:         splitRoster(m.TeamRoster),
		PointsBalance:      m.PointsBalance,
		IsPremium:          m.IsPremium,
		PremiumActivatedAt: nullTimeToTimePtr(m.PremiumActivatedAt),
		LastProfileEditAt:  nullTimeToTimePtr(m.LastProfileEditAt),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func joinRoster(roster []string) string {
	parts := make([]string, 0, len(roster))
	for _, member := range roster {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		parts = append(parts, member)
	}
	return strings.Join(parts, ",")
}

func splitRoster(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type purchaseRequestTableModel struct {
	ID              int64        `db:"id"`
	OrderID         string       `db:"order_id"`
	UserID          string       `db:"user_id"`
	Amount          int64        `db:"amount"`
	PointsRequested int          `db:"points_requested"`
	Status          string       `db:"status"`
	SubmittedAt     time.Time    `db:"submitted_at"`
	DecidedAt       sql.NullTime `db:"decided_at"`
	DecidedBy       string       `db:"decided_by"`
}

func (m purchaseRequestTableModel) toDomain() economy.PurchaseRequest {
	return economy.PurchaseRequest{
		OrderID:         m.OrderID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		PointsRequested: m.PointsRequested,
		Status:          economy.RequestStatus(m.Status),
		SubmittedAt:     m.SubmittedAt,
		DecidedAt:       nullTimeToTimePtr(m.DecidedAt),
		DecidedBy:       m.DecidedBy,
	}
}

type purchaseRequestInsertModel struct {
	OrderID         string    `db:"order_id"`
	UserID          string    `db:"user_id"`
	Amount          int64     `db:"amount"`
	PointsRequested int       `db:"points_requested"`
	Status          string    `db:"status"`
	SubmittedAt     time.Time `db:"submitted_at"`
	DecidedBy       string    `db:"decided_by"`
}

func newPurchaseRequestInsertModel(r economy.PurchaseRequest) purchaseRequestInsertModel {
	return purchaseRequestInsertModel{
		OrderID:         r.OrderID,
		UserID:          r.UserID,
		Amount:          r.Amount,
		PointsRequested: r.PointsRequested,
		Status:          string(r.Status),
		SubmittedAt:     r.SubmittedAt,
		DecidedBy:       r.DecidedBy,
	}
}
