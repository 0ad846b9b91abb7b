package economy

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientBalance = errors.New("insufficient points balance")
	ErrEditLocked          = errors.New("profile edit is locked")
)

// InsufficientBalanceError reports the caller's current balance next to the
// threshold that was not met.
type InsufficientBalanceError struct {
	Balance  int
	Required int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient points balance: have %d, need %d", e.Balance, e.Required)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// EditLockedError reports how many whole days remain before the profile can
// be edited again.
type EditLockedError struct {
	DaysRemaining int
}

func (e *EditLockedError) Error() string {
	return fmt.Sprintf("profile edit is locked for %d more day(s)", e.DaysRemaining)
}

func (e *EditLockedError) Unwrap() error {
	return ErrEditLocked
}
