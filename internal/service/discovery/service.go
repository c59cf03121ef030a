package discovery

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/repository"
)

// DefaultLimit is the candidate count when the caller does not supply one.
const DefaultLimit = 10

// Service composes the profile store and the swipe ledger to produce the
// next candidate set for a user.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
	rng      *rand.Rand
}

// NewService creates the discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Candidate is one discovery result as exposed to clients.
type Candidate struct {
	ID         string   `json:"id"` // profile owner's user id
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Distance   int      `json:"distance"` // km, see GetDiscoveryProfiles
	Bio        string   `json:"bio"`
	City       string   `json:"city"`
	Interests  []string `json:"interests"`
	Photos     []string `json:"photos"`
	IsVerified bool     `json:"isVerified"`
}

// GetDiscoveryProfiles returns up to limit candidates for the user,
// newest profile first, excluding the caller and everyone the caller has
// already swiped on.
//
// Distance is a display value: the real haversine distance when both
// sides carry coordinates, otherwise a randomized plausible placeholder
// (1-50 km). Callers must not treat the placeholder as geo-derived.
func (s *Service) GetDiscoveryProfiles(ctx context.Context, userID string, limit int) ([]Candidate, error) {
	s.appCtx.Logger.Debug("GetDiscoveryProfiles called", "user", userID, "limit", limit)

	if limit <= 0 {
		limit = DefaultLimit
	}

	caller, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	views, err := s.profiles.Discovery(ctx, userID, limit)
	if err != nil {
		s.appCtx.Logger.Error("discovery query failed", "err", err)
		return nil, svcErr.Map(err)
	}

	candidates := make([]Candidate, 0, len(views))
	for _, v := range views {
		candidates = append(candidates, Candidate{
			ID:         v.Profile.UserID,
			Name:       v.Profile.Name,
			Age:        v.Profile.Age,
			Distance:   s.displayDistance(caller, &v.Profile),
			Bio:        v.Profile.Bio,
			City:       v.Profile.City,
			Interests:  v.Profile.Interests,
			Photos:     v.Profile.Photos,
			IsVerified: v.Profile.IsVerified,
		})
	}
	return candidates, nil
}

// displayDistance prefers the real great-circle distance; without
// coordinates on both ends it falls back to the documented placeholder.
func (s *Service) displayDistance(caller, candidate *db.Profile) int {
	if caller != nil && caller.Latitude != nil && caller.Longitude != nil &&
		candidate.Latitude != nil && candidate.Longitude != nil {
		km := haversineKm(*caller.Latitude, *caller.Longitude, *candidate.Latitude, *candidate.Longitude)
		if km < 1 {
			return 1
		}
		return int(math.Round(km))
	}
	return s.rng.Intn(50) + 1
}

// haversineKm computes the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
