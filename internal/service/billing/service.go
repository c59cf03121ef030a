package billing

import (
	"context"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/repository"
)

// Plan pricing in cents and entitlement window lengths. The payment
// processor itself is a black box; ProviderRef links our row to it.
const (
	MonthlyPriceCents = 1500
	YearlyPriceCents  = 12000

	monthlyWindow = 30 * 24 * time.Hour
	yearlyWindow  = 365 * 24 * time.Hour
)

// Service owns the subscription ledger and VIP entitlement derivation.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	subs   *repository.SubscriptionRepository
}

// NewService creates the billing service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		subs:   repository.NewSubscriptionRepository(appCtx.DB),
	}
}

// CreateSubscription records a new entitlement window starting now.
// Prior rows are not expired or cancelled; they simply age out of the
// isUserVIP derivation once ends_at passes.
func (s *Service) CreateSubscription(ctx context.Context, userID, planType, providerRef string) (*db.Subscription, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if user == nil {
		return nil, svcErr.NotFound("user not found")
	}

	var (
		amount int
		window time.Duration
	)
	switch planType {
	case db.PlanMonthly:
		amount, window = MonthlyPriceCents, monthlyWindow
	case db.PlanYearly:
		amount, window = YearlyPriceCents, yearlyWindow
	default:
		return nil, svcErr.Validation("planType must be monthly or yearly")
	}

	now := time.Now().UTC()
	sub := &db.Subscription{
		UserID:      userID,
		PlanType:    planType,
		Amount:      amount,
		Currency:    "USD",
		ProviderRef: providerRef,
		Status:      db.SubscriptionActive,
		StartsAt:    now,
		EndsAt:      now.Add(window),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		s.appCtx.Logger.Error("subscription insert failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}

	// Denormalized display hint only; gating always re-derives from the
	// ledger.
	if err := s.users.SetVIP(ctx, userID, true, &sub.EndsAt); err != nil {
		s.appCtx.Logger.Warn("failed to update VIP display flag", "user", userID, "err", err)
	}

	s.appCtx.Logger.Info("subscription created", "user", userID, "plan", planType, "ends_at", sub.EndsAt)
	return sub, nil
}

// CancelSubscription flips an active subscription to cancelled before its
// natural expiry. Owner-only; cancelling an already-cancelled row is a
// no-op returning the row unchanged.
func (s *Service) CancelSubscription(ctx context.Context, userID, subscriptionID string) (*db.Subscription, error) {
	sub, err := s.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if sub == nil {
		return nil, svcErr.NotFound("subscription not found")
	}
	if sub.UserID != userID {
		return nil, svcErr.Authorization("subscription belongs to another user")
	}
	if sub.Status != db.SubscriptionActive {
		return sub, nil
	}

	if err := s.subs.UpdateStatus(ctx, sub.ID, db.SubscriptionCancelled); err != nil {
		return nil, svcErr.Map(err)
	}
	sub.Status = db.SubscriptionCancelled

	// Recompute the display hint from whatever entitlement remains.
	active, err := s.subs.GetActive(ctx, userID, time.Now().UTC())
	if err == nil {
		if active != nil {
			_ = s.users.SetVIP(ctx, userID, true, &active.EndsAt)
		} else {
			_ = s.users.SetVIP(ctx, userID, false, nil)
		}
	}

	return sub, nil
}

// IsUserVIP derives the entitlement from the ledger on every call:
// true only while an active subscription's ends_at is in the future.
func (s *Service) IsUserVIP(ctx context.Context, userID string) (bool, error) {
	sub, err := s.subs.GetActive(ctx, userID, time.Now().UTC())
	if err != nil {
		return false, svcErr.Map(err)
	}
	return sub != nil, nil
}

// Status reports the live entitlement plus the governing subscription row.
type Status struct {
	IsVIP        bool             `json:"isVIP"`
	Subscription *db.Subscription `json:"subscription,omitempty"`
}

// SubscriptionStatus returns the caller's current entitlement view.
func (s *Service) SubscriptionStatus(ctx context.Context, userID string) (*Status, error) {
	sub, err := s.subs.GetActive(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &Status{IsVIP: sub != nil, Subscription: sub}, nil
}
