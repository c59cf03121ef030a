package db

import (
	"time"
)

// User is the identity row. Everything else (profiles, swipes, matches,
// messages, subscriptions) hangs off users.id and cascades on delete.
//
// IsVIP / VIPExpiresAt are denormalized display hints kept in sync when a
// subscription is created; entitlement checks always derive VIP state from
// the subscriptions table instead of trusting these columns.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        *string    `gorm:"uniqueIndex;size:128" json:"email"`
	IsVIP        bool       `gorm:"column:is_vip;not null;default:false" json:"isVIP"`
	VIPExpiresAt *time.Time `gorm:"column:vip_expires_at" json:"vipExpiresAt"`
	LastActiveAt time.Time  `json:"lastActiveAt"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Profile holds the swipeable profile data, exactly one row per user.
//
// AgeRangeMin/AgeRangeMax and MaxDistance are the owner's search
// preferences; Age >= 18 and AgeRangeMin <= AgeRangeMax are enforced at
// intake by the account service.
type Profile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Age         int       `gorm:"not null" json:"age"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Gender      string    `gorm:"size:16;not null" json:"gender"`
	LookingFor  string    `gorm:"size:16;not null" json:"lookingFor"`
	Interests   []string  `gorm:"serializer:json" json:"interests"`
	Photos      []string  `gorm:"serializer:json" json:"photos"`
	IsVerified  bool      `gorm:"not null;default:false" json:"isVerified"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	City        string    `gorm:"size:64" json:"city"`
	MaxDistance int       `gorm:"not null;default:50" json:"maxDistance"`
	AgeRangeMin int       `gorm:"not null;default:18" json:"ageRangeMin"`
	AgeRangeMax int       `gorm:"not null;default:99" json:"ageRangeMax"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Swipe records one like/dislike decision by SwiperID about SwipedID.
//
// Unique index on (swiper_id, swiped_id) guarantees a single row per
// ordered pair; rows are immutable once written (append-only ledger).
// This table is the system of record for discovery exclusion and match
// detection.
type Swipe struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SwiperID  string    `gorm:"size:36;not null;uniqueIndex:idx_swipes_pair,priority:1" json:"swiperId"`
	Swiper    User      `gorm:"foreignKey:SwiperID;constraint:OnDelete:CASCADE" json:"-"`
	SwipedID  string    `gorm:"size:36;not null;uniqueIndex:idx_swipes_pair,priority:2;index:idx_swipes_swiped_like,priority:1" json:"swipedId"`
	Swiped    User      `gorm:"foreignKey:SwipedID;constraint:OnDelete:CASCADE" json:"-"`
	IsLike    bool      `gorm:"not null;index:idx_swipes_swiped_like,priority:2" json:"isLike"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Match is a mutual-like relationship. User1ID < User2ID always
// (canonical pair ordering), and the unique index on the pair makes a
// racing duplicate insert fail loudly so callers can fall back to the
// existing row.
type Match struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	User1ID       string     `gorm:"size:36;not null;uniqueIndex:idx_matches_pair,priority:1" json:"user1Id"`
	User1         User       `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE" json:"-"`
	User2ID       string     `gorm:"size:36;not null;uniqueIndex:idx_matches_pair,priority:2;index" json:"user2Id"`
	User2         User       `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
}

// Message belongs to exactly one match, ordered by CreatedAt within it.
type Message struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	MatchID       string    `gorm:"size:36;not null;index" json:"matchId"`
	Match         Match     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SenderID      string    `gorm:"size:36;not null" json:"senderId"`
	Sender        User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	MessageType   string    `gorm:"size:16;not null;default:text" json:"messageType"`
	VoiceURL      *string   `json:"voiceUrl"`
	VoiceDuration *int      `json:"voiceDuration"`
	IsRead        bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Subscription plan types and statuses.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription is one VIP entitlement window. A user is VIP while at
// least one row has status = active and ends_at in the future; expiry is
// time-based, never a cleanup job.
type Subscription struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"userId"`
	User        User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PlanType    string    `gorm:"size:16;not null" json:"planType"`
	Amount      int       `gorm:"not null" json:"amount"` // cents
	Currency    string    `gorm:"size:8;not null;default:USD" json:"currency"`
	ProviderRef string    `gorm:"size:128" json:"providerRef"`
	Status      string    `gorm:"size:16;not null" json:"status"`
	StartsAt    time.Time `gorm:"not null" json:"startsAt"`
	EndsAt      time.Time `gorm:"not null" json:"endsAt"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Composed read models. Built once by the repository layer so endpoints
// never reassemble user+profile shapes ad hoc.

// ProfileWithUser pairs a profile with its owning user row.
type ProfileWithUser struct {
	Profile Profile `json:"profile"`
	User    User    `json:"user"`
}

// MatchWithProfile is a match annotated with the counterpart's profile,
// from the perspective of the user the listing was built for.
type MatchWithProfile struct {
	Match       Match   `json:"match"`
	Counterpart Profile `json:"counterpart"`
}

// MessageWithSender is a message annotated with the sender's profile.
type MessageWithSender struct {
	Message Message `json:"message"`
	Sender  Profile `json:"sender"`
}
