package economy

import (
	"context"
	"time"
)

// Decision is the outcome of applying a terminal status to a purchase
// request. Applied is false when the request was already terminal; callers
// treat that as a no-op and report the recorded status.
type Decision struct {
	Applied bool
	Request PurchaseRequest
}

// AccountRepository persists per-user account rows.
type AccountRepository interface {
	Get(ctx context.Context, userID string) (Account, bool, error)
	// GetOrCreate returns the account, creating an empty one on first login.
	GetOrCreate(ctx context.Context, userID string) (Account, error)
	// UpdateProfile writes the editable fields and stamps LastProfileEditAt.
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate, editedAt time.Time) (Account, error)
	// RedeemPremium atomically debits the premium cost and stamps the
	// activation time. Returns ErrInsufficientBalance (wrapped with the
	// current balance) when the guard fails.
	RedeemPremium(ctx context.Context, userID string, cost int, activatedAt time.Time) (Account, error)
}

// PurchaseRepository persists purchase requests. Decide must be atomic with
// the balance credit and guarded on the PENDING status so a retried approval
// cannot double-credit.
type PurchaseRepository interface {
	Create(ctx context.Context, request PurchaseRequest) error
	Get(ctx context.Context, orderID string) (PurchaseRequest, bool, error)
	ListByUser(ctx context.Context, userID string) ([]PurchaseRequest, error)
	// List returns requests filtered by status; an empty status returns all.
	List(ctx context.Context, status RequestStatus) ([]PurchaseRequest, error)
	// Decide transitions PENDING -> status and, for an approval, credits
	// PointsRequested to the user's balance in the same atomic write.
	Decide(ctx context.Context, orderID string, status RequestStatus, decidedBy string, decidedAt time.Time) (Decision, error)
}
