package repository

import (
	"context"
	"errors"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionRepository provides data access for the VIP entitlement
// ledger. Multiple historical rows may exist per user; only the most
// recent valid one governs entitlement.
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new repository bound to the given DB connection.
func NewSubscriptionRepository(database *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: database}
}

// Create records a new entitlement window. Prior rows are left alone;
// expiry is time-based (ends_at), not a state transition.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *db.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(sub).Error
}

// GetByID returns the subscription or (nil, nil) when absent.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*db.Subscription, error) {
	var sub db.Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetActive returns the most recent subscription that is active and not
// yet past ends_at, or (nil, nil) when the user holds no valid
// entitlement at the given instant.
func (r *SubscriptionRepository) GetActive(ctx context.Context, userID string, now time.Time) (*db.Subscription, error) {
	var sub db.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND ends_at > ?", userID, db.SubscriptionActive, now).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateStatus flips a subscription's status (e.g. explicit cancellation
// before natural expiry).
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&db.Subscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}
