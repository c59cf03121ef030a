package matching

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/cache"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/repository"
)

// Service is the match engine: it owns the swipe ledger write path,
// reciprocity detection, canonical match creation, match listings and the
// VIP-gated "who liked me" views.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	swipes   *repository.SwipeRepository
	matches  *repository.MatchRepository
	subs     *repository.SubscriptionRepository
	likePage int
}

// NewService creates the match engine with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		swipes:   repository.NewSwipeRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
		subs:     repository.NewSubscriptionRepository(appCtx.DB),
		likePage: 20,
	}
}

// SwipeResult is what a recorded swipe produced.
type SwipeResult struct {
	Swipe   *db.Swipe `json:"swipe"`
	IsMatch bool      `json:"isMatch"`
	Match   *db.Match `json:"match,omitempty"`
}

// RecordSwipe appends a swipe and, for likes, runs the reciprocity check
// in the same transaction so two users' simultaneous mutual likes cannot
// produce two match rows (the unique index on the canonical pair backs
// this up at the constraint level).
//
// Duplicate swipes on the same ordered pair resolve to the existing
// ledger row unchanged; an already-existing match is still reported.
func (s *Service) RecordSwipe(ctx context.Context, swiperID, swipedID string, isLike bool) (*SwipeResult, error) {
	s.appCtx.Logger.Debug("RecordSwipe called", "swiper", swiperID, "swiped", swipedID, "is_like", isLike)

	if swiperID == swipedID {
		return nil, svcErr.Validation("cannot swipe on yourself")
	}

	target, err := s.users.GetByID(ctx, swipedID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if target == nil {
		return nil, svcErr.NotFound("swiped user not found")
	}

	var (
		swipe   *db.Swipe
		match   *db.Match
		created bool
	)
	txErr := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		swipeRepo := repository.NewSwipeRepository(tx)
		matchRepo := repository.NewMatchRepository(tx)

		var err error
		swipe, created, err = swipeRepo.Create(ctx, swiperID, swipedID, isLike)
		if err != nil {
			return err
		}
		if !swipe.IsLike {
			return nil
		}

		mutual, err := swipeRepo.HasLiked(ctx, swipedID, swiperID)
		if err != nil {
			return err
		}
		if !mutual {
			return nil
		}

		match, _, err = matchRepo.Create(ctx, swiperID, swipedID)
		return err
	})
	if txErr != nil {
		s.appCtx.Logger.Error("RecordSwipe failed", "err", txErr)
		return nil, svcErr.Map(txErr)
	}

	// Update the cached like counter only for newly written likes; the
	// TTL bounds any drift against the exclusion-aware DB count.
	if created && swipe.IsLike {
		key := s.appCtx.RedisCache.KeyForLikeCount(swipedID)
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, cache.LikeCountTTL).Err()
	}

	if match != nil {
		s.appCtx.Logger.Info("mutual match", "user1", match.User1ID, "user2", match.User2ID)
	}

	return &SwipeResult{Swipe: swipe, IsMatch: match != nil, Match: match}, nil
}

// GetSwipe is a pure lookup; absence is (nil, nil), never an error.
func (s *Service) GetSwipe(ctx context.Context, swiperID, swipedID string) (*db.Swipe, error) {
	swipe, err := s.swipes.Get(ctx, swiperID, swipedID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return swipe, nil
}

// GetMatch finds the match for a pair regardless of argument order.
func (s *Service) GetMatch(ctx context.Context, userA, userB string) (*db.Match, error) {
	match, err := s.matches.Get(ctx, userA, userB)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return match, nil
}

// ListMatches returns the caller's matches with counterpart profiles,
// most recent activity first.
func (s *Service) ListMatches(ctx context.Context, userID string) ([]db.MatchWithProfile, error) {
	views, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("ListMatches failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return views, nil
}

// LikersPage is one VIP-gated page of "who liked me".
type LikersPage struct {
	Likers    []db.ProfileWithUser `json:"likers"`
	NextToken *string              `json:"nextPaginationToken,omitempty"`
	Gated     bool                 `json:"gated"`
}

// ListLikedYou returns the profiles of users who liked userID.
//
// VIP gating: this is a feature gate, not an authorization failure — a
// non-VIP caller gets an empty placeholder page with Gated=true and no
// ledger data.
func (s *Service) ListLikedYou(ctx context.Context, userID string, paginationToken *string) (*LikersPage, error) {
	s.appCtx.Logger.Debug("ListLikedYou called", "user", userID)

	vip, err := s.isVIP(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !vip {
		return &LikersPage{Likers: []db.ProfileWithUser{}, Gated: true}, nil
	}

	likers, nextToken, err := s.swipes.GetLikers(ctx, userID, paginationToken, s.likePage)
	if err != nil {
		s.appCtx.Logger.Error("GetLikers failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return &LikersPage{Likers: likers, NextToken: nextToken}, nil
}

// CountLikedYou returns how many users liked userID. Not gated: the bare
// count is the teaser shown to non-VIP users.
//
// Cache-first strategy:
//  1. Read from Redis (likes:count:<id>), refreshing the TTL on hit.
//  2. On miss, fall back to the DB and repopulate the cache.
func (s *Service) CountLikedYou(ctx context.Context, userID string) (int64, error) {
	key := s.appCtx.RedisCache.KeyForLikeCount(userID)

	if cached, _ := s.appCtx.RedisCache.Get(ctx, key); cached != "" {
		if n, err := parseCount(cached); err == nil {
			_ = s.appCtx.RedisCache.Client.Expire(ctx, key, cache.LikeCountTTL).Err()
			return n, nil
		}
	}

	count, err := s.swipes.CountLikers(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}
	_ = s.appCtx.RedisCache.UpdateLikeCount(ctx, userID, count)

	return count, nil
}

// isVIP derives the entitlement live from the subscription ledger on
// every check; no cached boolean is allowed to drift from it.
func (s *Service) isVIP(ctx context.Context, userID string) (bool, error) {
	sub, err := s.subs.GetActive(ctx, userID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}

func parseCount(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
