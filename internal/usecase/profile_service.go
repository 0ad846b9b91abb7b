package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
)

// ProfileService guards profile edits behind the cooldown window.
type ProfileService struct {
	accounts economy.AccountRepository
	logger   *logging.Logger
	now      func() time.Time
}

func NewProfileService(accounts economy.AccountRepository, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ProfileService{
		accounts: accounts,
		logger:   logger,
		now:      time.Now,
	}
}

// UpdateProfile applies the edit when the cooldown allows it and stamps the
// edit time. A locked profile returns EditLockedError with the days left.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update economy.ProfileUpdate) (economy.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return economy.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := update.Validate(); err != nil {
		return economy.Account{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return economy.Account{}, fmt.Errorf("load account %s: %w", userID, err)
	}

	now := s.now().UTC()
	status := account.EditStatusAt(now)
	if !status.Allowed {
		return economy.Account{}, &economy.EditLockedError{DaysRemaining: status.DaysRemaining}
	}

	updated, err := s.accounts.UpdateProfile(ctx, userID, update, now)
	if err != nil {
		return economy.Account{}, fmt.Errorf("update profile for %s: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", userID)

	return updated, nil
}

// EditStatus reports whether the caller may edit now and, if not, how long
// the lock holds.
func (s *ProfileService) EditStatus(ctx context.Context, userID string) (economy.EditStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.EditStatus")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return economy.EditStatus{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	account, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return economy.EditStatus{}, fmt.Errorf("load account %s: %w", userID, err)
	}

	return account.EditStatusAt(s.now().UTC()), nil
}
