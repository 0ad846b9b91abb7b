package httpapi

import (
	"context"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

type ingestRowRecord struct {
	TeamName string `json:"team_name" validate:"required,max=120"`
	Kills    int    `json:"kills" validate:"gte=0"`
	Points   *int   `json:"points,omitempty" validate:"omitempty,gte=0"`
}

type ingestBatchRequest struct {
	Lobby  string            `json:"lobby" validate:"required"`
	Window string            `json:"window" validate:"required"`
	Rows   []ingestRowRecord `json:"rows" validate:"required,min=1,dive"`
}

type addRowRequest struct {
	Lobby    string `json:"lobby" validate:"required"`
	Window   string `json:"window" validate:"required"`
	TeamName string `json:"team_name" validate:"required,max=120"`
	Kills    int    `json:"kills" validate:"gte=0"`
	Points   *int   `json:"points,omitempty" validate:"omitempty,gte=0"`
}

type submitPurchaseRequest struct {
	Amount          int64 `json:"amount" validate:"required,gt=0"`
	PointsRequested int   `json:"points_requested" validate:"required,gt=0"`
}

type updateProfileRequest struct {
	DisplayName string   `json:"display_name" validate:"required,max=80"`
	InGameID    string   `json:"in_game_id" validate:"required,max=80"`
	TeamRoster  []string `json:"team_roster" validate:"max=10,dive,required,max=80"`
}

type rankEntryDTO struct {
	Rank          int     `json:"rank"`
	TeamName      string  `json:"teamName"`
	Kills         int     `json:"kills"`
	Points        int     `json:"points"`
	PointsPerKill float64 `json:"pointsPerKill"`
	BatchID       string  `json:"batchId,omitempty"`
	Source        string  `json:"source"`
	UpdatedAtUTC  string  `json:"updated_at_utc"`
}

type leaderboardDTO struct {
	Lobby   string         `json:"lobby"`
	Window  string         `json:"window"`
	Entries []rankEntryDTO `json:"entries"`
}

type ingestResultDTO struct {
	BatchID   string `json:"batchId"`
	Lobby     string `json:"lobby"`
	Window    string `json:"window"`
	TeamCount int    `json:"teamCount"`
}

type revertResultDTO struct {
	BatchID   string `json:"batchId"`
	Reverted  bool   `json:"reverted"`
	Lobby     string `json:"lobby,omitempty"`
	Window    string `json:"window,omitempty"`
	TeamCount int    `json:"teamCount"`
}

type batchRecordDTO struct {
	BatchID      string `json:"batchId"`
	Lobby        string `json:"lobby"`
	Window       string `json:"window"`
	TeamCount    int    `json:"teamCount"`
	Source       string `json:"source"`
	Actor        string `json:"actor,omitempty"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type accountDTO struct {
	UserID        string   `json:"user_id"`
	DisplayName   string   `json:"display_name,omitempty"`
	InGameID      string   `json:"in_game_id,omitempty"`
	TeamRoster    []string `json:"team_roster,omitempty"`
	PointsBalance int      `json:"points_balance"`
	IsPremium     bool     `json:"is_premium"`
	CreatedAtUTC  string   `json:"created_at_utc"`
	UpdatedAtUTC  string   `json:"updated_at_utc"`
}

type premiumStatusDTO struct {
	Active         bool   `json:"active"`
	ActivatedAtUTC string `json:"activated_at_utc,omitempty"`
	DaysRemaining  int    `json:"days_remaining"`
}

type editStatusDTO struct {
	Allowed         bool   `json:"allowed"`
	LastEditedAtUTC string `json:"last_edited_at_utc,omitempty"`
	DaysRemaining   int    `json:"days_remaining"`
}

type purchaseRequestDTO struct {
	OrderID         string `json:"order_id"`
	UserID          string `json:"user_id"`
	Amount          int64  `json:"amount"`
	PointsRequested int    `json:"points_requested"`
	Status          string `json:"status"`
	SubmittedAtUTC  string `json:"submitted_at_utc"`
	DecidedAtUTC    string `json:"decided_at_utc,omitempty"`
	DecidedBy       string `json:"decided_by,omitempty"`
}

type decisionDTO struct {
	Applied bool               `json:"applied"`
	Request purchaseRequestDTO `json:"request"`
}

type partitionExportDTO struct {
	Lobby         string         `json:"lobby"`
	Window        string         `json:"window"`
	Entries       []rankEntryDTO `json:"entries"`
	ExportedAtUTC string         `json:"exported_at_utc"`
}

type backupExportDTO struct {
	Partitions    []partitionExportDTO `json:"partitions"`
	Purchases     []purchaseRequestDTO `json:"purchases"`
	ExportedAtUTC string               `json:"exported_at_utc"`
}

func entryToDTO(ctx context.Context, v ledger.Entry) rankEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.entryToDTO")
	defer span.End()

	return rankEntryDTO{
		Rank:          v.Rank,
		TeamName:      v.TeamName,
		Kills:         v.Kills,
		Points:        v.Points,
		PointsPerKill: v.PointsPerKill(),
		BatchID:       v.BatchID,
		Source:        string(v.Source),
		UpdatedAtUTC:  v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func entriesToDTO(ctx context.Context, entries []ledger.Entry) []rankEntryDTO {
	items := make([]rankEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryToDTO(ctx, e))
	}
	return items
}

func leaderboardToDTO(ctx context.Context, partition ledger.Partition, entries []ledger.Entry) leaderboardDTO {
	return leaderboardDTO{
		Lobby:   partition.Lobby,
		Window:  string(partition.Window),
		Entries: entriesToDTO(ctx, entries),
	}
}

func ingestResultToDTO(v usecase.IngestResult) ingestResultDTO {
	return ingestResultDTO{
		BatchID:   v.BatchID,
		Lobby:     v.Partition.Lobby,
		Window:    string(v.Partition.Window),
		TeamCount: v.TeamCount,
	}
}

func revertResultToDTO(v usecase.RevertResult) revertResultDTO {
	return revertResultDTO{
		BatchID:   v.BatchID,
		Reverted:  v.Reverted,
		Lobby:     v.Partition.Lobby,
		Window:    string(v.Partition.Window),
		TeamCount: v.TeamCount,
	}
}

func batchRecordToDTO(v ledger.BatchRecord) batchRecordDTO {
	return batchRecordDTO{
		BatchID:      v.BatchID,
		Lobby:        v.Lobby,
		Window:       string(v.Window),
		TeamCount:    v.TeamCount,
		Source:       string(v.Source),
		Actor:        v.Actor,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func accountToDTO(ctx context.Context, v economy.Account) accountDTO {
	ctx, span := startSpan(ctx, "httpapi.accountToDTO")
	defer span.End()

	return accountDTO{
		UserID:        v.UserID,
		DisplayName:   v.DisplayName,
		InGameID:      v.InGameID,
		TeamRoster:    append([]string(nil), v.TeamRoster...),
		PointsBalance: v.PointsBalance,
		IsPremium:     v.IsPremium,
		CreatedAtUTC:  v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:  v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func premiumStatusToDTO(v economy.PremiumStatus) premiumStatusDTO {
	dto := premiumStatusDTO{
		Active:        v.Active,
		DaysRemaining: v.DaysRemaining,
	}
	if v.ActivatedAt != nil {
		dto.ActivatedAtUTC = v.ActivatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func editStatusToDTO(v economy.EditStatus) editStatusDTO {
	dto := editStatusDTO{
		Allowed:       v.Allowed,
		DaysRemaining: v.DaysRemaining,
	}
	if v.LastEditedAt != nil {
		dto.LastEditedAtUTC = v.LastEditedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func purchaseRequestToDTO(v economy.PurchaseRequest) purchaseRequestDTO {
	dto := purchaseRequestDTO{
		OrderID:         v.OrderID,
		UserID:          v.UserID,
		Amount:          v.Amount,
		PointsRequested: v.PointsRequested,
		Status:          string(v.Status),
		SubmittedAtUTC:  v.SubmittedAt.UTC().Format(time.RFC3339),
		DecidedBy:       v.DecidedBy,
	}
	if v.DecidedAt != nil {
		dto.DecidedAtUTC = v.DecidedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func purchaseRequestsToDTO(requests []economy.PurchaseRequest) []purchaseRequestDTO {
	items := make([]purchaseRequestDTO, 0, len(requests))
	for _, r := range requests {
		items = append(items, purchaseRequestToDTO(r))
	}
	return items
}

func partitionExportToDTO(ctx context.Context, v usecase.PartitionExport) partitionExportDTO {
	return partitionExportDTO{
		Lobby:         v.Partition.Lobby,
		Window:        string(v.Partition.Window),
		Entries:       entriesToDTO(ctx, v.Entries),
		ExportedAtUTC: v.ExportedAt.UTC().Format(time.RFC3339),
	}
}

func backupExportToDTO(ctx context.Context, v usecase.BackupExport) backupExportDTO {
	partitions := make([]partitionExportDTO, 0, len(v.Partitions))
	for _, p := range v.Partitions {
		partitions = append(partitions, partitionExportToDTO(ctx, p))
	}
	return backupExportDTO{
		Partitions:    partitions,
		Purchases:     purchaseRequestsToDTO(v.Purchases),
		ExportedAtUTC: v.ExportedAt.UTC().Format(time.RFC3339),
	}
}
