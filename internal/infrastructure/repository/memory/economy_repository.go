package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
)

type AccountRepository struct {
	mu    sync.RWMutex
	items map[string]economy.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{items: make(map[string]economy.Account)}
}

func cloneAccount(a economy.Account) economy.Account {
	a.TeamRoster = append([]string(nil), a.TeamRoster...)
	if a.PremiumActivatedAt != nil {
		t := *a.PremiumActivatedAt
		a.PremiumActivatedAt = &t
	}
	if a.LastProfileEditAt != nil {
		t := *a.LastProfileEditAt
		a.LastProfileEditAt = &t
	}
	return a
}

func (r *AccountRepository) Get(_ context.Context, userID string) (economy.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.items[userID]
	if !ok {
		return economy.Account{}, false, nil
	}
	return cloneAccount(account), true, nil
}

func (r *AccountRepository) GetOrCreate(_ context.Context, userID string) (economy.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account, ok := r.items[userID]; ok {
		return cloneAccount(account), nil
	}

	now := time.Now().UTC()
	account := economy.Account{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.items[userID] = account
	return cloneAccount(account), nil
}

func (r *AccountRepository) UpdateProfile(_ context.Context, userID string, update economy.ProfileUpdate, editedAt time.Time) (economy.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.items[userID]
	if !ok {
		return economy.Account{}, fmt.Errorf("account %s not found", userID)
	}

	account.DisplayName = update.DisplayName
	account.InGameID = update.InGameID
	account.TeamRoster = append([]string(nil), update.TeamRoster...)
	account.LastProfileEditAt = &editedAt
	account.UpdatedAt = editedAt
	r.items[userID] = account
	return cloneAccount(account), nil
}

func (r *AccountRepository) RedeemPremium(_ context.Context, userID string, cost int, activatedAt time.Time) (economy.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.items[userID]
	if !ok {
		return economy.Account{}, fmt.Errorf("account %s not found", userID)
	}
	if account.PointsBalance < cost {
		return economy.Account{}, &economy.InsufficientBalanceError{
			Balance:  account.PointsBalance,
			Required: cost,
		}
	}

	account.PointsBalance -= cost
	account.IsPremium = true
	account.PremiumActivatedAt = &activatedAt
	account.UpdatedAt = activatedAt
	r.items[userID] = account
	return cloneAccount(account), nil
}

// credit is used by PurchaseRepository.Decide under its own lock ordering:
// the purchase lock is always taken first.
func (r *AccountRepository) credit(userID string, points int, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.items[userID]
	if !ok {
		account = economy.Account{UserID: userID, CreatedAt: at}
	}
	account.PointsBalance += points
	account.UpdatedAt = at
	r.items[userID] = account
}

type PurchaseRepository struct {
	mu       sync.RWMutex
	accounts *AccountRepository
	items    map[string]economy.PurchaseRequest
	orders   []string
}

func NewPurchaseRepository(accounts *AccountRepository) *PurchaseRepository {
	return &PurchaseRepository{
		accounts: accounts,
		items:    make(map[string]economy.PurchaseRequest),
	}
}

func clonePurchaseRequest(r economy.PurchaseRequest) economy.PurchaseRequest {
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		r.DecidedAt = &t
	}
	return r
}

func (r *PurchaseRepository) Create(_ context.Context, request economy.PurchaseRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[request.OrderID]; exists {
		return fmt.Errorf("purchase request %s already exists", request.OrderID)
	}
	r.items[request.OrderID] = request
	r.orders = append(r.orders, request.OrderID)
	return nil
}

func (r *PurchaseRepository) Get(_ context.Context, orderID string) (economy.PurchaseRequest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.items[orderID]
	if !ok {
		return economy.PurchaseRequest{}, false, nil
	}
	return clonePurchaseRequest(request), true, nil
}

func (r *PurchaseRepository) ListByUser(_ context.Context, userID string) ([]economy.PurchaseRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]economy.PurchaseRequest, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		request := r.items[r.orders[i]]
		if request.UserID != userID {
			continue
		}
		out = append(out, clonePurchaseRequest(request))
	}
	return out, nil
}

func (r *PurchaseRepository) List(_ context.Context, status economy.RequestStatus) ([]economy.PurchaseRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]economy.PurchaseRequest, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		request := r.items[r.orders[i]]
		if status != "" && request.Status != status {
			continue
		}
		out = append(out, clonePurchaseRequest(request))
	}
	return out, nil
}

func (r *PurchaseRepository) Decide(_ context.Context, orderID string, status economy.RequestStatus, decidedBy string, decidedAt time.Time) (economy.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.items[orderID]
	if !ok {
		return economy.Decision{}, fmt.Errorf("purchase request %s not found", orderID)
	}
	if request.Status.Terminal() {
		return economy.Decision{Applied: false, Request: clonePurchaseRequest(request)}, nil
	}

	request.Status = status
	request.DecidedAt = &decidedAt
	request.DecidedBy = decidedBy
	r.items[orderID] = request

	if status == economy.StatusApproved && r.accounts != nil {
		r.accounts.credit(request.UserID, request.PointsRequested, decidedAt)
	}

	return economy.Decision{Applied: true, Request: clonePurchaseRequest(request)}, nil
}
