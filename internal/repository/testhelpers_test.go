package repository_test

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/google/uuid"
)

// setupTestDB opens an isolated in-memory SQLite DB with the full schema.
// TranslateError matches production so duplicate-key handling is exercised.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// a single connection keeps every query on the same in-memory DB
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

// mustUser inserts a user with a generated id and returns it.
func mustUser(t *testing.T, database *gorm.DB, email string) db.User {
	t.Helper()
	user := db.User{ID: uuid.NewString(), Email: &email, LastActiveAt: time.Now().UTC()}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// mustProfile inserts a minimal valid profile for the user.
func mustProfile(t *testing.T, database *gorm.DB, userID, name string) db.Profile {
	t.Helper()
	profile := db.Profile{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Age:         25,
		Gender:      "woman",
		LookingFor:  "serious",
		Interests:   []string{"music"},
		Photos:      []string{},
		MaxDistance: 50,
		AgeRangeMin: 18,
		AgeRangeMax: 99,
	}
	if err := database.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}
