package account

import (
	"context"
	"strings"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/repository"
)

// Service owns the identity store and the profile store: login
// (lookup-or-create), the composed me view, and profile intake with its
// validation invariants.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
	}
}

// Login looks the user up by email, creating the row on first login.
// Idempotent: the same email always resolves to the same user. Bumps
// last_active_at on every call.
func (s *Service) Login(ctx context.Context, email string) (*db.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, svcErr.Validation("a valid email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if user == nil {
		user = &db.User{Email: &email}
		if err := s.users.Create(ctx, user); err != nil {
			// Two first-logins racing on the same email: the unique index
			// rejects one, which then reads the winner's row.
			if svcErr.IsDuplicate(err) {
				user, err = s.users.GetByEmail(ctx, email)
				if err != nil {
					return nil, svcErr.Map(err)
				}
			} else {
				return nil, svcErr.Map(err)
			}
		}
		s.appCtx.Logger.Info("user created", "user", user.ID)
	}

	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		s.appCtx.Logger.Warn("failed to bump last_active_at", "user", user.ID, "err", err)
	}
	return user, nil
}

// Me is the composed user+profile view. Profile is nil until onboarding
// completes.
type Me struct {
	User    db.User     `json:"user"`
	Profile *db.Profile `json:"profile"`
}

// GetMe returns the caller's user row and profile, if any.
func (s *Service) GetMe(ctx context.Context, userID string) (*Me, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if user == nil {
		return nil, svcErr.NotFound("user not found")
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &Me{User: *user, Profile: profile}, nil
}

// ProfileInput carries a partial profile update; nil fields are left
// unchanged (or defaulted on first create).
type ProfileInput struct {
	Name        *string  `json:"name"`
	Age         *int     `json:"age"`
	Bio         *string  `json:"bio"`
	Gender      *string  `json:"gender"`
	LookingFor  *string  `json:"lookingFor"`
	Interests   []string `json:"interests"`
	Photos      []string `json:"photos"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	City        *string  `json:"city"`
	MaxDistance *int     `json:"maxDistance"`
	AgeRangeMin *int     `json:"ageRangeMin"`
	AgeRangeMax *int     `json:"ageRangeMax"`
}

// UpdateProfile upserts the caller's profile (created on onboarding
// completion or first update; mutated by the owning user only).
//
// Invariants enforced before any write: age >= 18, ageRangeMin <=
// ageRangeMax, and name/age/gender/lookingFor present on first create.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*db.ProfileWithUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if user == nil {
		return nil, svcErr.NotFound("user not found")
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	creating := profile == nil
	if creating {
		profile = &db.Profile{
			UserID:      userID,
			Interests:   []string{},
			Photos:      []string{},
			MaxDistance: 50,
			AgeRangeMin: 18,
			AgeRangeMax: 99,
		}
	}

	applyInput(profile, in)

	if creating && (profile.Name == "" || profile.Age == 0 || profile.Gender == "" || profile.LookingFor == "") {
		return nil, svcErr.Validation("name, age, gender and lookingFor are required")
	}
	if profile.Age < 18 {
		return nil, svcErr.Validation("age must be at least 18")
	}
	if profile.AgeRangeMin > profile.AgeRangeMax {
		return nil, svcErr.Validation("ageRangeMin must not exceed ageRangeMax")
	}
	if profile.AgeRangeMin < 18 {
		return nil, svcErr.Validation("ageRangeMin must be at least 18")
	}

	if creating {
		err = s.profiles.Create(ctx, profile)
	} else {
		err = s.profiles.Update(ctx, profile)
	}
	if err != nil {
		s.appCtx.Logger.Error("profile upsert failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}

	view, err := s.profiles.GetWithUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return view, nil
}

// DeleteUser removes the user and, via foreign keys, every dependent row.
// Rare admin path; normal operation never hard-deletes.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return svcErr.Map(err)
	}
	if user == nil {
		return svcErr.NotFound("user not found")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return svcErr.Map(err)
	}
	return nil
}

func applyInput(p *db.Profile, in ProfileInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.LookingFor != nil {
		p.LookingFor = *in.LookingFor
	}
	if in.Interests != nil {
		p.Interests = in.Interests
	}
	if in.Photos != nil {
		p.Photos = in.Photos
	}
	if in.Latitude != nil {
		p.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = in.Longitude
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.MaxDistance != nil {
		p.MaxDistance = *in.MaxDistance
	}
	if in.AgeRangeMin != nil {
		p.AgeRangeMin = *in.AgeRangeMin
	}
	if in.AgeRangeMax != nil {
		p.AgeRangeMax = *in.AgeRangeMax
	}
}
