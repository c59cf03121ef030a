package repository

import (
	"context"
	"errors"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRepository provides data access for mutual matches.
// Pairs are always stored in canonical order (lexicographically smaller
// id first), so the unordered pair maps to exactly one row.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CanonicalPair sorts two user ids into storage order.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Create inserts a match for the unordered pair {userA, userB}.
//
// Behavior:
//   - Ids are canonicalized before insertion.
//   - The unique index on (user1_id, user2_id) makes a racing duplicate
//     insert fail loudly; it is resolved by returning the existing row
//     with created=false (caught-conflict-is-success).
func (r *MatchRepository) Create(ctx context.Context, userA, userB string) (*db.Match, bool, error) {
	user1, user2 := CanonicalPair(userA, userB)
	match := &db.Match{
		ID:      uuid.NewString(),
		User1ID: user1,
		User2ID: user2,
	}

	err := r.db.WithContext(ctx).Create(match).Error
	if err == nil {
		return match, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	existing, getErr := r.Get(ctx, userA, userB)
	if getErr != nil {
		return nil, false, getErr
	}
	if existing == nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Get finds the match for an unordered pair, regardless of argument
// order. Absence is an explicit empty result (nil, nil).
func (r *MatchRepository) Get(ctx context.Context, userA, userB string) (*db.Match, error) {
	user1, user2 := CanonicalPair(userA, userB)
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1, user2).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByID returns the match or (nil, nil) when absent.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns every match involving the user, annotated with the
// counterpart's profile, most recent activity first (last message time,
// falling back to creation time).
//
// A match whose counterpart profile is missing (data-integrity anomaly)
// is omitted from the result rather than failing the listing.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.MatchWithProfile, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	counterpartIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		counterpartIDs = append(counterpartIDs, counterpartOf(m, userID))
	}

	var profiles []db.Profile
	if len(counterpartIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("user_id IN ?", counterpartIDs).Find(&profiles).Error; err != nil {
			return nil, err
		}
	}
	profileByUser := make(map[string]db.Profile, len(profiles))
	for _, p := range profiles {
		profileByUser[p.UserID] = p
	}

	views := make([]db.MatchWithProfile, 0, len(matches))
	for _, m := range matches {
		profile, ok := profileByUser[counterpartOf(m, userID)]
		if !ok {
			continue
		}
		views = append(views, db.MatchWithProfile{Match: m, Counterpart: profile})
	}
	return views, nil
}

// UpdateLastMessageAt bumps the conversation-ordering timestamp. Called
// inside the message-insert transaction.
func (r *MatchRepository) UpdateLastMessageAt(ctx context.Context, matchID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", matchID).
		Update("last_message_at", at).Error
}

func counterpartOf(m db.Match, userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}
