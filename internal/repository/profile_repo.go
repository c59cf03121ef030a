package repository

import (
	"context"
	"errors"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository provides data access for the profile store,
// including the discovery candidate query.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByUserID returns the user's profile or (nil, nil) when absent.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetWithUser returns the composed profile+user view or (nil, nil) when
// either row is absent.
func (r *ProfileRepository) GetWithUser(ctx context.Context, userID string) (*db.ProfileWithUser, error) {
	views, err := loadProfilesWithUsers(ctx, r.db, []string{userID})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, nil
	}
	return &views[0], nil
}

// Create inserts a new profile, assigning a UUID when none is set.
// The unique index on user_id enforces the 1:1 user↔profile invariant.
func (r *ProfileRepository) Create(ctx context.Context, profile *db.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update persists the given profile row (owner-only mutation is
// enforced by the service layer).
func (r *ProfileRepository) Update(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Discovery returns the next candidate profiles for a user.
//
// Exclusion rule: never the caller's own profile, never a profile the
// caller already swiped on (like or dislike) — an anti-join against the
// swipe ledger keyed by swiper_id = userID.
//
// Ordering: newest profile first. This is a placeholder ranking, not a
// scoring model; a future ranking algorithm can replace it without
// changing the contract.
func (r *ProfileRepository) Discovery(ctx context.Context, userID string, limit int) ([]db.ProfileWithUser, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id <> ?", userID).
		Where("user_id NOT IN (SELECT swiped_id FROM swipes WHERE swiper_id = ?)", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	return loadProfilesWithUsers(ctx, r.db, ids)
}

// loadProfilesWithUsers builds ProfileWithUser views for the given user
// ids, preserving input order. Users or profiles missing along the way
// (data-integrity anomalies) are silently skipped rather than failing
// the whole listing.
func loadProfilesWithUsers(ctx context.Context, database *gorm.DB, userIDs []string) ([]db.ProfileWithUser, error) {
	if len(userIDs) == 0 {
		return []db.ProfileWithUser{}, nil
	}

	var profiles []db.Profile
	if err := database.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	var users []db.User
	if err := database.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	profileByUser := make(map[string]db.Profile, len(profiles))
	for _, p := range profiles {
		profileByUser[p.UserID] = p
	}
	userByID := make(map[string]db.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	views := make([]db.ProfileWithUser, 0, len(userIDs))
	for _, id := range userIDs {
		profile, okP := profileByUser[id]
		user, okU := userByID[id]
		if !okP || !okU {
			continue
		}
		views = append(views, db.ProfileWithUser{Profile: profile, User: user})
	}
	return views, nil
}
