package repository

import (
	"context"
	"time"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository provides data access for the conversation store.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create inserts a message and bumps the parent match's last_message_at
// to the message's creation time, in one transaction so concurrent
// senders never lose the timestamp update.
func (r *MessageRepository) Create(ctx context.Context, message *db.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&db.Match{}).
			Where("id = ?", message.MatchID).
			Update("last_message_at", message.CreatedAt).Error
	})
}

// ListByMatch returns all messages of a match in ascending creation
// order, each annotated with the sender's profile.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID string) ([]db.MessageWithSender, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(messages))
	seen := make(map[string]bool, 2)
	for _, m := range messages {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			senderIDs = append(senderIDs, m.SenderID)
		}
	}

	var profiles []db.Profile
	if len(senderIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("user_id IN ?", senderIDs).Find(&profiles).Error; err != nil {
			return nil, err
		}
	}
	profileByUser := make(map[string]db.Profile, len(profiles))
	for _, p := range profiles {
		profileByUser[p.UserID] = p
	}

	views := make([]db.MessageWithSender, 0, len(messages))
	for _, m := range messages {
		views = append(views, db.MessageWithSender{
			Message: m,
			Sender:  profileByUser[m.SenderID],
		})
	}
	return views, nil
}

// MarkRead flips the read flag on all messages in the match not authored
// by userID. Idempotent: repeated calls affect zero rows.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND sender_id <> ? AND is_read = ?", matchID, userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
