package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	qb "github.com/Raushanritik30891/zyro-sub000/internal/platform/querybuilder"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Get(ctx context.Context, userID string) (economy.Account, bool, error) {
	query, args, err := qb.Select("*").From("accounts").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return economy.Account{}, false, fmt.Errorf("build get account query: %w", err)
	}

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return economy.Account{}, false, nil
		}
		return economy.Account{}, false, fmt.Errorf("get account %s: %w", userID, err)
	}
	return row.toDomain(), true, nil
}

func (r *AccountRepository) GetOrCreate(ctx context.Context, userID string) (economy.Account, error) {
	account, found, err := r.Get(ctx, userID)
	if err != nil {
		return economy.Account{}, err
	}
	if found {
		return account, nil
	}

	now := time.Now().UTC()
	query, args, err := qb.InsertInto("accounts").
		Columns("user_id", "display_name", "in_game_id", "team_roster", "points_balance", "is_premium", "created_at", "updated_at").
		Values(userID, "", "", "", 0, false, now, now).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return economy.Account{}, fmt.Errorf("build create account query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return economy.Account{}, fmt.Errorf("create account %s: %w", userID, err)
	}

	account, found, err = r.Get(ctx, userID)
	if err != nil {
		return economy.Account{}, err
	}
	if !found {
		return economy.Account{}, fmt.Errorf("account %s missing after create", userID)
	}
	return account, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, userID string, update economy.ProfileUpdate, editedAt time.Time) (economy.Account, error) {
	query, args, err := qb.Update("accounts").
		Set("display_name", update.DisplayName).
		Set("in_game_id", update.InGameID).
		Set("team_roster", joinRoster(update.TeamRoster)).
		Set("last_profile_edit_at", editedAt).
		Set("updated_at", editedAt).
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return economy.Account{}, fmt.Errorf("build update profile query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return economy.Account{}, fmt.Errorf("update profile %s: %w", userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return economy.Account{}, fmt.Errorf("count updated profiles: %w", err)
	}
	if affected == 0 {
		return economy.Account{}, fmt.Errorf("account %s not found", userID)
	}

	account, _, err := r.Get(ctx, userID)
	if err != nil {
		return economy.Account{}, err
	}
	return account, nil
}

// RedeemPremium debits the cost and stamps the activation inside one guarded
// UPDATE. Zero affected rows means the balance guard failed.
func (r *AccountRepository) RedeemPremium(ctx context.Context, userID string, cost int, activatedAt time.Time) (economy.Account, error) {
	query, args, err := qb.Update("accounts").
		SetExpr("points_balance", "points_balance - ?", cost).
		Set("is_premium", true).
		Set("premium_activated_at", activatedAt).
		Set("updated_at", activatedAt).
		Where(
			qb.Eq("user_id", userID),
			qb.Expr("points_balance >= ?", cost),
		).
		ToSQL()
	if err != nil {
		return economy.Account{}, fmt.Errorf("build redeem premium query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return economy.Account{}, fmt.Errorf("redeem premium %s: %w", userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return economy.Account{}, fmt.Errorf("count redeemed accounts: %w", err)
	}
	if affected == 0 {
		account, found, getErr := r.Get(ctx, userID)
		if getErr != nil {
			return economy.Account{}, getErr
		}
		if !found {
			return economy.Account{}, fmt.Errorf("account %s not found", userID)
		}
		return economy.Account{}, &economy.InsufficientBalanceError{
			Balance:  account.PointsBalance,
			Required: cost,
		}
	}

	account, _, err := r.Get(ctx, userID)
	if err != nil {
		return economy.Account{}, err
	}
	return account, nil
}

type PurchaseRepository struct {
	db *sqlx.DB
}

func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, request economy.PurchaseRequest) error {
	query, args, err := qb.InsertModel("purchase_requests", newPurchaseRequestInsertModel(request), "")
	if err != nil {
		return fmt.Errorf("build insert purchase request query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert purchase request %s: %w", request.OrderID, err)
	}
	return nil
}

func (r *PurchaseRepository) Get(ctx context.Context, orderID string) (economy.PurchaseRequest, bool, error) {
	query, args, err := qb.Select("*").From("purchase_requests").
		Where(qb.Eq("order_id", orderID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return economy.PurchaseRequest{}, false, fmt.Errorf("build get purchase request query: %w", err)
	}

	var row purchaseRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return economy.PurchaseRequest{}, false, nil
		}
		return economy.PurchaseRequest{}, false, fmt.Errorf("get purchase request %s: %w", orderID, err)
	}
	return row.toDomain(), true, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID string) ([]economy.PurchaseRequest, error) {
	query, args, err := qb.Select("*").From("purchase_requests").
		Where(qb.Eq("user_id", userID)).
		OrderBy("submitted_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user purchase requests query: %w", err)
	}
	return r.selectRequests(ctx, query, args)
}

func (r *PurchaseRepository) List(ctx context.Context, status economy.RequestStatus) ([]economy.PurchaseRequest, error) {
	builder := qb.Select("*").From("purchase_requests")
	if status != "" {
		builder = builder.Where(qb.Eq("status", string(status)))
	}
	query, args, err := builder.OrderBy("submitted_at DESC", "id DESC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list purchase requests query: %w", err)
	}
	return r.selectRequests(ctx, query, args)
}

func (r *PurchaseRepository) selectRequests(ctx context.Context, query string, args []any) ([]economy.PurchaseRequest, error) {
	var rows []purchaseRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}

	out := make([]economy.PurchaseRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Decide flips a PENDING request to its terminal status and, on approval,
// credits the balance in the same transaction. The status guard makes a
// retried decision a no-op.
func (r *PurchaseRepository) Decide(ctx context.Context, orderID string, status economy.RequestStatus, decidedBy string, decidedAt time.Time) (economy.Decision, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return economy.Decision{}, fmt.Errorf("begin tx decide purchase request: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updateQuery, updateArgs, err := qb.Update("purchase_requests").
		Set("status", string(status)).
		Set("decided_at", decidedAt).
		Set("decided_by", decidedBy).
		Where(
			qb.Eq("order_id", orderID),
			qb.Eq("status", string(economy.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return economy.Decision{}, fmt.Errorf("build decide purchase request query: %w", err)
	}

	result, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return economy.Decision{}, fmt.Errorf("decide purchase request %s: %w", orderID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return economy.Decision{}, fmt.Errorf("count decided purchase requests: %w", err)
	}

	if affected == 0 {
		recorded, found, getErr := r.Get(ctx, orderID)
		if getErr != nil {
			return economy.Decision{}, getErr
		}
		if !found {
			return economy.Decision{}, fmt.Errorf("purchase request %s not found", orderID)
		}
		return economy.Decision{Applied: false, Request: recorded}, nil
	}

	if status == economy.StatusApproved {
		creditQuery := `UPDATE accounts
SET points_balance = points_balance + pr.points_requested,
    updated_at = $1
FROM purchase_requests pr
WHERE pr.order_id = $2 AND accounts.user_id = pr.user_id`
		if _, err := tx.ExecContext(ctx, creditQuery, decidedAt, orderID); err != nil {
			return economy.Decision{}, fmt.Errorf("credit approved purchase %s: %w", orderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return economy.Decision{}, fmt.Errorf("commit decide purchase request tx: %w", err)
	}

	decided, found, err := r.Get(ctx, orderID)
	if err != nil {
		return economy.Decision{}, err
	}
	if !found {
		return economy.Decision{}, fmt.Errorf("purchase request %s missing after decide", orderID)
	}
	return economy.Decision{Applied: true, Request: decided}, nil
}
