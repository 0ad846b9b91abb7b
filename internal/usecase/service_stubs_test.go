package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/extraction"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
)

type stubLedgerStore struct {
	mu      sync.Mutex
	entries []ledger.Entry
	batches []ledger.BatchRecord
	nextID  int64

	listErr    error
	replaceErr error
}

func (s *stubLedgerStore) List(_ context.Context, filter ledger.Filter) ([]ledger.Entry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubLedgerStore) Put(_ context.Context, entry ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubLedgerStore) DeleteMany(_ context.Context, filter ledger.Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if filter.Matches(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *stubLedgerStore) ReplacePartition(_ context.Context, partition ledger.Partition, entries []ledger.Entry, record ledger.BatchRecord) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Lobby == partition.Lobby && e.Window == partition.Window {
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	for _, e := range entries {
		s.nextID++
		e.ID = s.nextID
		s.entries = append(s.entries, e)
	}
	s.batches = append([]ledger.BatchRecord{record}, s.batches...)
	return nil
}

func (s *stubLedgerStore) RevertBatch(_ context.Context, batchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.BatchID == batchID {
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept

	records := s.batches[:0]
	for _, r := range s.batches {
		if r.BatchID == batchID {
			continue
		}
		records = append(records, r)
	}
	s.batches = records
	return nil
}

func (s *stubLedgerStore) ListBatches(_ context.Context, filter ledger.Filter) ([]ledger.BatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.BatchRecord, 0, len(s.batches))
	for _, r := range s.batches {
		if filter.BatchID != "" && r.BatchID != filter.BatchID {
			continue
		}
		if filter.Lobby != "" && r.Lobby != filter.Lobby {
			continue
		}
		if filter.Window != "" && r.Window != filter.Window {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type stubAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]economy.Account
}

func newStubAccountRepository() *stubAccountRepository {
	return &stubAccountRepository{accounts: make(map[string]economy.Account)}
}

func (s *stubAccountRepository) Get(_ context.Context, userID string) (economy.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userID]
	return account, ok, nil
}

func (s *stubAccountRepository) GetOrCreate(_ context.Context, userID string) (economy.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.accounts[userID]; ok {
		return account, nil
	}
	account := economy.Account{UserID: userID, CreatedAt: time.Now()}
	s.accounts[userID] = account
	return account, nil
}

func (s *stubAccountRepository) UpdateProfile(_ context.Context, userID string, update economy.ProfileUpdate, editedAt time.Time) (economy.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userID]
	if !ok {
		return economy.Account{}, fmt.Errorf("account %s not found", userID)
	}
	account.DisplayName = update.DisplayName
	account.InGameID = update.InGameID
	account.TeamRoster = append([]string(nil), update.TeamRoster...)
	account.LastProfileEditAt = &editedAt
	account.UpdatedAt = editedAt
	s.accounts[userID] = account
	return account, nil
}

func (s *stubAccountRepository) RedeemPremium(_ context.Context, userID string, cost int, activatedAt time.Time) (economy.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userID]
	if !ok {
		return economy.Account{}, fmt.Errorf("account %s not found", userID)
	}
	if account.PointsBalance < cost {
		return economy.Account{}, &economy.InsufficientBalanceError{Balance: account.PointsBalance, Required: cost}
	}
	account.PointsBalance -= cost
	account.IsPremium = true
	account.PremiumActivatedAt = &activatedAt
	account.UpdatedAt = activatedAt
	s.accounts[userID] = account
	return account, nil
}

func (s *stubAccountRepository) setBalance(userID string, balance int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.accounts[userID]
	account.UserID = userID
	account.PointsBalance = balance
	s.accounts[userID] = account
}

type stubPurchaseRepository struct {
	mu       sync.Mutex
	accounts *stubAccountRepository
	requests map[string]economy.PurchaseRequest
	order    []string
}

func newStubPurchaseRepository(accounts *stubAccountRepository) *stubPurchaseRepository {
	return &stubPurchaseRepository{
		accounts: accounts,
		requests: make(map[string]economy.PurchaseRequest),
	}
}

func (s *stubPurchaseRepository) Create(_ context.Context, request economy.PurchaseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[request.OrderID]; exists {
		return fmt.Errorf("order %s already exists", request.OrderID)
	}
	s.requests[request.OrderID] = request
	s.order = append(s.order, request.OrderID)
	return nil
}

func (s *stubPurchaseRepository) Get(_ context.Context, orderID string) (economy.PurchaseRequest, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[orderID]
	return request, ok, nil
}

func (s *stubPurchaseRepository) ListByUser(_ context.Context, userID string) ([]economy.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]economy.PurchaseRequest, 0, len(s.order))
	for _, orderID := range s.order {
		if r := s.requests[orderID]; r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubPurchaseRepository) List(_ context.Context, status economy.RequestStatus) ([]economy.PurchaseRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]economy.PurchaseRequest, 0, len(s.order))
	for _, orderID := range s.order {
		r := s.requests[orderID]
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubPurchaseRepository) Decide(ctx context.Context, orderID string, status economy.RequestStatus, decidedBy string, decidedAt time.Time) (economy.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[orderID]
	if !ok {
		return economy.Decision{}, fmt.Errorf("order %s not found", orderID)
	}
	if request.Status.Terminal() {
		return economy.Decision{Applied: false, Request: request}, nil
	}

	request.Status = status
	request.DecidedAt = &decidedAt
	request.DecidedBy = decidedBy
	s.requests[orderID] = request

	if status == economy.StatusApproved && s.accounts != nil {
		s.accounts.mu.Lock()
		account := s.accounts.accounts[request.UserID]
		account.UserID = request.UserID
		account.PointsBalance += request.PointsRequested
		s.accounts.accounts[request.UserID] = account
		s.accounts.mu.Unlock()
	}

	return economy.Decision{Applied: true, Request: request}, nil
}

type stubExtractor struct {
	rows []extraction.Row
	err  error
}

func (s *stubExtractor) ExtractScoreboard(_ context.Context, _ []byte, _ string) ([]extraction.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

type stubIDGenerator struct {
	mu     sync.Mutex
	serial int
}

func (s *stubIDGenerator) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.serial++
	return fmt.Sprintf("order-%03d", s.serial), nil
}
