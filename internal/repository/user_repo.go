package repository

import (
	"context"
	"errors"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository provides data access for the identity store.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID returns the user or (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user owning the email or (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user, assigning a UUID when none is set.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.LastActiveAt.IsZero() {
		user.LastActiveAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// TouchLastActive bumps last_active_at, called on every login.
func (r *UserRepository) TouchLastActive(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("last_active_at", time.Now().UTC()).Error
}

// SetVIP updates the denormalized VIP display columns. Entitlement
// checks still derive from the subscriptions table.
func (r *UserRepository) SetVIP(ctx context.Context, id string, isVIP bool, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_vip":         isVIP,
			"vip_expires_at": expiresAt,
		}).Error
}

// Delete removes a user. Rare admin path; dependent rows cascade via
// foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.User{}).Error
}
