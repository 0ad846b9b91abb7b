package economy

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PremiumCostPoints is debited from the balance on activation or renewal.
	PremiumCostPoints = 500
	// PremiumWindowDays is how long one activation lasts.
	PremiumWindowDays = 30
	// ProfileEditCooldownDays is the minimum gap between profile edits.
	ProfileEditCooldownDays = 14
)

// Account is the per-user economy state. PointsBalance changes only through
// approved purchase requests and premium redemption.
type Account struct {
	UserID             string
	DisplayName        string
	InGameID           string
	TeamRoster         []string
	PointsBalance      int
	IsPremium          bool
	PremiumActivatedAt *time.Time
	LastProfileEditAt  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PremiumStatus derives the membership window at read time. Expiry is never
// written back; the flag is only rewritten on activation or renewal.
type PremiumStatus struct {
	Active        bool
	ActivatedAt   *time.Time
	DaysRemaining int
}

func (a Account) PremiumStatusAt(now time.Time) PremiumStatus {
	if a.PremiumActivatedAt == nil {
		return PremiumStatus{}
	}
	elapsed := daysSince(*a.PremiumActivatedAt, now)
	remaining := PremiumWindowDays - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return PremiumStatus{
		Active:        now.Sub(*a.PremiumActivatedAt) < PremiumWindowDays*24*time.Hour,
		ActivatedAt:   a.PremiumActivatedAt,
		DaysRemaining: remaining,
	}
}

// EditStatus reports whether the profile is editable and, when locked, how
// long until the cooldown elapses.
type EditStatus struct {
	Allowed       bool
	LastEditedAt  *time.Time
	DaysRemaining int
}

// EditStatusAt applies the cooldown rule: the first edit is always allowed,
// afterwards an edit is allowed once the full cooldown has elapsed
// (inclusive boundary).
func (a Account) EditStatusAt(now time.Time) EditStatus {
	if a.LastProfileEditAt == nil {
		return EditStatus{Allowed: true}
	}
	if now.Sub(*a.LastProfileEditAt) >= ProfileEditCooldownDays*24*time.Hour {
		return EditStatus{Allowed: true, LastEditedAt: a.LastProfileEditAt}
	}
	remaining := ProfileEditCooldownDays - daysSince(*a.LastProfileEditAt, now)
	if remaining < 0 {
		remaining = 0
	}
	return EditStatus{
		Allowed:       false,
		LastEditedAt:  a.LastProfileEditAt,
		DaysRemaining: remaining,
	}
}

func daysSince(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}
	return int(now.Sub(from) / (24 * time.Hour))
}

// RequestStatus is the purchase-request lifecycle state. Approved and
// rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func ParseDecision(v string) (RequestStatus, error) {
	s := RequestStatus(strings.ToUpper(strings.TrimSpace(v)))
	if s != StatusApproved && s != StatusRejected {
		return "", fmt.Errorf("decision must be %s or %s", StatusApproved, StatusRejected)
	}
	return s, nil
}

// PurchaseRequest is a user's ask to convert a payment into points. The
// order id doubles as the idempotency key for the admin decision.
type PurchaseRequest struct {
	OrderID         string
	UserID          string
	Amount          int64
	PointsRequested int
	Status          RequestStatus
	SubmittedAt     time.Time
	DecidedAt       *time.Time
	DecidedBy       string
}

func (r PurchaseRequest) Validate() error {
	if strings.TrimSpace(r.OrderID) == "" {
		return fmt.Errorf("order id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if r.PointsRequested <= 0 {
		return fmt.Errorf("points requested must be greater than zero")
	}
	return nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName string
	InGameID    string
	TeamRoster  []string
}

func (u ProfileUpdate) Validate() error {
	if strings.TrimSpace(u.DisplayName) == "" {
		return fmt.Errorf("display name is required")
	}
	if strings.TrimSpace(u.InGameID) == "" {
		return fmt.Errorf("in-game id is required")
	}
	return nil
}
