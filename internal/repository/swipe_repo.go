package repository

import (
	"context"
	"errors"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/utils/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SwipeRepository provides data access for the swipe ledger.
// It encapsulates all queries related to likes/dislikes between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Create appends a swipe to the ledger.
//
// Behavior:
//   - The ledger is append-only with a unique (swiper_id, swiped_id)
//     index, so a repeat swipe on the same ordered pair never creates a
//     second row.
//   - Duplicate policy (deterministic): the existing row is returned
//     unchanged and created=false; the new isLike value is discarded.
//
// Example:
//
//	repo.Create(ctx, "u1", "u2", true) // user u1 liked user u2
func (r *SwipeRepository) Create(
	ctx context.Context,
	swiperID, swipedID string,
	isLike bool,
) (*db.Swipe, bool, error) {
	swipe := &db.Swipe{
		ID:       uuid.NewString(),
		SwiperID: swiperID,
		SwipedID: swipedID,
		IsLike:   isLike,
	}

	err := r.db.WithContext(ctx).Create(swipe).Error
	if err == nil {
		return swipe, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	// Lost the race or repeat swipe: resolve to the existing row.
	existing, getErr := r.Get(ctx, swiperID, swipedID)
	if getErr != nil {
		return nil, false, getErr
	}
	if existing == nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Get looks up the swipe for an ordered pair.
// Absence is an explicit empty result (nil, nil), never an error.
func (r *SwipeRepository) Get(ctx context.Context, swiperID, swipedID string) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.db.WithContext(ctx).
		Where("swiper_id = ? AND swiped_id = ?", swiperID, swipedID).
		First(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// HasLiked checks whether swiper has liked swiped.
// Used for the reciprocity check after each incoming like.
func (r *SwipeRepository) HasLiked(ctx context.Context, swiperID, swipedID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND is_like = ?", swiperID, swipedID, true).
		Count(&count).Error
	return count > 0, err
}

// GetLikers returns the profiles of users who liked the given user.
//
// Behavior:
//   - Only swipes where swiped_id = userID and is_like = true count.
//   - Excludes users the recipient explicitly disliked back.
//   - Ordered by created_at DESC, swiper_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *SwipeRepository) GetLikers(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]db.ProfileWithUser, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	var swipes []db.Swipe
	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.is_like = ?", userID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swiped_id = s.swiper_id
				  AND s2.is_like = ?
			)`, userID, false).
		Order("s.created_at DESC, s.swiper_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.SwiperID != "" && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(s.created_at < ? OR (s.created_at = ? AND s.swiper_id < ?))",
			ts, ts, cursor.SwiperID,
		)
	}

	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			SwiperID:    last.SwiperID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		swipes = swipes[:limit]
	}

	likerIDs := make([]string, 0, len(swipes))
	for _, s := range swipes {
		likerIDs = append(likerIDs, s.SwiperID)
	}

	views, err := loadProfilesWithUsers(ctx, r.db, likerIDs)
	if err != nil {
		return nil, nil, err
	}
	return views, nextToken, nil
}

// CountLikers returns how many users liked the given user.
//
// Behavior:
//   - Counts only swipes where swiped_id = userID and is_like = true.
//   - Excludes users the recipient explicitly disliked back.
//   - Used in conjunction with the Redis counter (DB is fallback).
func (r *SwipeRepository) CountLikers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.is_like = ?", userID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.swiper_id = ?
				  AND s2.swiped_id = s.swiper_id
				  AND s2.is_like = ?
			)`, userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
