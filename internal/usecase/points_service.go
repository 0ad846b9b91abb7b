package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/id"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
)

// PointsService runs the purchase-request lifecycle and premium redemption.
type PointsService struct {
	accounts  economy.AccountRepository
	purchases economy.PurchaseRepository
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewPointsService(accounts economy.AccountRepository, purchases economy.PurchaseRepository, idGen id.Generator, logger *logging.Logger) *PointsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PointsService{
		accounts:  accounts,
		purchases: purchases,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// GetAccount returns the user's account, creating an empty one on first use.
func (s *PointsService) GetAccount(ctx context.Context, userID string) (economy.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.GetAccount")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return economy.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return economy.Account{}, fmt.Errorf("load account %s: %w", userID, err)
	}
	return account, nil
}

// SubmitPurchaseRequest records a PENDING request and returns it. The balance
// does not move until an admin approves.
func (s *PointsService) SubmitPurchaseRequest(ctx context.Context, userID string, amount int64, pointsRequested int) (economy.PurchaseRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.SubmitPurchaseRequest")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return economy.PurchaseRequest{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if _, err := s.accounts.GetOrCreate(ctx, userID); err != nil {
		return economy.PurchaseRequest{}, fmt.Errorf("load account %s: %w", userID, err)
	}

	orderID, err := s.idGen.NewID()
	if err != nil {
		return economy.PurchaseRequest{}, fmt.Errorf("generate order id: %w", err)
	}

	request := economy.PurchaseRequest{
		OrderID:         orderID,
		UserID:          userID,
		Amount:          amount,
		PointsRequested: pointsRequested,
		Status:          economy.StatusPending,
		SubmittedAt:     s.now().UTC(),
	}
	if err := request.Validate(); err != nil {
		return economy.PurchaseRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.purchases.Create(ctx, request); err != nil {
		return economy.PurchaseRequest{}, fmt.Errorf("create purchase request: %w", err)
	}

	s.logger.InfoContext(ctx, "purchase request submitted",
		"order_id", request.OrderID,
		"user_id", userID,
		"points_requested", pointsRequested,
	)

	return request, nil
}

// ListMyRequests returns the caller's purchase requests.
func (s *PointsService) ListMyRequests(ctx context.Context, userID string) ([]economy.PurchaseRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ListMyRequests")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	requests, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests for %s: %w", userID, err)
	}
	return requests, nil
}

// ListRequests returns purchase requests for the admin review queue.
func (s *PointsService) ListRequests(ctx context.Context, status economy.RequestStatus) ([]economy.PurchaseRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ListRequests")
	defer span.End()

	if status != "" && status != economy.StatusPending && !status.Terminal() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	requests, err := s.purchases.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	return requests, nil
}

// Decide applies an admin decision to a purchase request. Approval credits
// the requested points exactly once; a decision against an already-terminal
// request changes nothing and returns the recorded state.
func (s *PointsService) Decide(ctx context.Context, orderID string, decision economy.RequestStatus, decidedBy string) (economy.Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.Decide")
	defer span.End()

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return economy.Decision{}, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	if !decision.Terminal() {
		return economy.Decision{}, fmt.Errorf("%w: decision must be %s or %s", ErrInvalidInput, economy.StatusApproved, economy.StatusRejected)
	}

	_, found, err := s.purchases.Get(ctx, orderID)
	if err != nil {
		return economy.Decision{}, fmt.Errorf("load purchase request %s: %w", orderID, err)
	}
	if !found {
		return economy.Decision{}, fmt.Errorf("%w: purchase request %s", ErrNotFound, orderID)
	}

	result, err := s.purchases.Decide(ctx, orderID, decision, decidedBy, s.now().UTC())
	if err != nil {
		return economy.Decision{}, fmt.Errorf("decide purchase request %s: %w", orderID, err)
	}

	if result.Applied {
		s.logger.InfoContext(ctx, "purchase request decided",
			"order_id", orderID,
			"status", string(decision),
			"decided_by", decidedBy,
		)
	} else {
		s.logger.InfoContext(ctx, "purchase decision ignored: request already terminal",
			"order_id", orderID,
			"recorded_status", string(result.Request.Status),
		)
	}

	return result, nil
}

// RedeemPremium debits the premium cost and starts a fresh membership
// window. While a window is still active the call changes nothing; renewal
// only happens after expiry.
func (s *PointsService) RedeemPremium(ctx context.Context, userID string) (economy.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.RedeemPremium")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return economy.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	now := s.now().UTC()

	current, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return economy.Account{}, fmt.Errorf("load account %s: %w", userID, err)
	}
	if current.PremiumStatusAt(now).Active {
		s.logger.InfoContext(ctx, "premium redeem ignored: window still active",
			"user_id", userID,
			"days_remaining", current.PremiumStatusAt(now).DaysRemaining,
		)
		return current, nil
	}

	account, err := s.accounts.RedeemPremium(ctx, userID, economy.PremiumCostPoints, now)
	if err != nil {
		if errors.Is(err, economy.ErrInsufficientBalance) {
			return economy.Account{}, err
		}
		return economy.Account{}, fmt.Errorf("redeem premium for %s: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "premium redeemed",
		"user_id", userID,
		"balance", account.PointsBalance,
	)

	return account, nil
}

// PremiumStatus reports the lazily-evaluated membership window.
func (s *PointsService) PremiumStatus(ctx context.Context, userID string) (economy.PremiumStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.PremiumStatus")
	defer span.End()

	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return economy.PremiumStatus{}, err
	}
	return account.PremiumStatusAt(s.now().UTC()), nil
}
