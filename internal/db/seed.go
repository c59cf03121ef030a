package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedNames = []string{
	"Nadia", "Marcus", "Sophie", "Jean", "Camille", "Ricardo", "Lina", "Omar",
	"Tanya", "Victor", "Amara", "Denis", "Farah", "Kevin", "Rosa", "Samuel",
	"Ingrid", "Pablo", "Yara", "Tom",
}

var seedInterests = []string{
	"travel", "music", "cooking", "hiking", "photography", "dancing",
	"movies", "reading", "fitness", "art", "gaming", "yoga",
}

var seedCities = []string{
	"Port-au-Prince", "Miami", "Montreal", "Paris", "New York", "Santo Domingo",
}

// SeedTestData resets the database and populates it with demo users,
// profiles, swipes and the matches/messages/subscriptions that follow
// from them.
//
// Behavior:
//  1. Clears all tables (children first to respect foreign keys).
//  2. Creates 20 users with complete profiles.
//  3. Generates swipes with ~70% likes; every mutual like pair gets a
//     canonical match row, some with a short conversation.
//  4. Gives a few users an active VIP subscription.
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "swipes", "subscriptions", "profiles", "users"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	// --- Users + profiles ---
	users := make([]User, 0, len(seedNames))
	for i, name := range seedNames {
		email := fmt.Sprintf("%s%d@example.com", name, i+1)
		user := User{
			ID:           uuid.NewString(),
			Email:        &email,
			LastActiveAt: time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := database.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		gender := "woman"
		lookingFor := "serious"
		if i%2 == 0 {
			gender = "man"
		}
		if i%3 == 0 {
			lookingFor = "casual"
		}

		interests := make([]string, 0, 3)
		for _, idx := range r.Perm(len(seedInterests))[:3] {
			interests = append(interests, seedInterests[idx])
		}

		profile := Profile{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			Name:       name,
			Age:        18 + r.Intn(28),
			Bio:        fmt.Sprintf("Hi, I'm %s. Ask me about %s.", name, interests[0]),
			Gender:     gender,
			LookingFor: lookingFor,
			Interests:  interests,
			Photos: []string{
				fmt.Sprintf("https://picsum.photos/seed/%s-1/600/800", name),
				fmt.Sprintf("https://picsum.photos/seed/%s-2/600/800", name),
			},
			IsVerified:  i%4 == 0,
			City:        seedCities[i%len(seedCities)],
			MaxDistance: 50,
			AgeRangeMin: 18,
			AgeRangeMax: 99,
		}
		if err := database.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users with profiles.", len(users))

	// --- Swipes (~70% likes), every 3rd like made mutual ---
	counter := 0
	liked := make(map[string]bool)
	for i := range users {
		for j := 0; j < 8; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}

			isLike := r.Intn(100) < 70
			if counter%3 == 0 {
				isLike = true
				recip := Swipe{
					ID:       uuid.NewString(),
					SwiperID: target.ID,
					SwipedID: users[i].ID,
					IsLike:   true,
				}
				if err := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal swipe: %w", err)
				}
				liked[target.ID+"|"+users[i].ID] = true
			}

			swipe := Swipe{
				ID:       uuid.NewString(),
				SwiperID: users[i].ID,
				SwipedID: target.ID,
				IsLike:   isLike,
			}
			if err := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&swipe).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}
			if isLike {
				liked[users[i].ID+"|"+target.ID] = true
			}
			counter++
		}
	}
	log.Printf("Seeded %d swipes.", counter)

	// --- Matches from mutual likes, some with a conversation ---
	matched := 0
	for pair := range liked {
		a, b := splitPair(pair)
		if !liked[b+"|"+a] {
			continue
		}
		user1, user2 := a, b
		if user2 < user1 {
			user1, user2 = user2, user1
		}

		match := Match{
			ID:      uuid.NewString(),
			User1ID: user1,
			User2ID: user2,
		}
		res := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
		if res.Error != nil {
			return fmt.Errorf("failed to seed match: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		matched++

		if matched%2 == 0 {
			now := time.Now().UTC()
			msgs := []Message{
				{ID: uuid.NewString(), MatchID: match.ID, SenderID: user1, Content: "Hey! We matched 🎉", MessageType: "text", CreatedAt: now.Add(-2 * time.Hour)},
				{ID: uuid.NewString(), MatchID: match.ID, SenderID: user2, Content: "Finally! How's your week going?", MessageType: "text", CreatedAt: now.Add(-1 * time.Hour)},
			}
			for _, m := range msgs {
				if err := database.Create(&m).Error; err != nil {
					return fmt.Errorf("failed to seed message: %w", err)
				}
			}
			last := msgs[len(msgs)-1].CreatedAt
			if err := database.Model(&Match{}).Where("id = ?", match.ID).Update("last_message_at", last).Error; err != nil {
				return fmt.Errorf("failed to bump last_message_at: %w", err)
			}
		}
	}
	log.Printf("Seeded %d matches.", matched)

	// --- A few VIP subscriptions ---
	now := time.Now().UTC()
	for i := 0; i < 3 && i < len(users); i++ {
		ends := now.Add(30 * 24 * time.Hour)
		sub := Subscription{
			ID:          uuid.NewString(),
			UserID:      users[i].ID,
			PlanType:    PlanMonthly,
			Amount:      1500,
			Currency:    "USD",
			ProviderRef: fmt.Sprintf("seed-%d", i+1),
			Status:      SubscriptionActive,
			StartsAt:    now,
			EndsAt:      ends,
		}
		if err := database.Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to seed subscription: %w", err)
		}
		if err := database.Model(&User{}).Where("id = ?", users[i].ID).
			Updates(map[string]interface{}{"is_vip": true, "vip_expires_at": ends}).Error; err != nil {
			return fmt.Errorf("failed to flag VIP: %w", err)
		}
	}
	log.Println("Seeded 3 VIP subscriptions.")

	return nil
}

func splitPair(pair string) (string, string) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '|' {
			return pair[:i], pair[i+1:]
		}
	}
	return pair, ""
}
