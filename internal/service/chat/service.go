package chat

import (
	"context"
	"strings"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/repository"
)

// Message kinds accepted by PostMessage.
const (
	TypeText  = "text"
	TypeVoice = "voice"
	TypeImage = "image"
)

// Service is the conversation store: messages scoped to a match, ordered,
// with read-state. Every operation authorizes the caller as a participant
// of the match before touching message rows.
type Service struct {
	appCtx   *app.AppContext
	matches  *repository.MatchRepository
	messages *repository.MessageRepository
}

// NewService creates the chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// PostInput carries one message post. RecipientID is the legacy
// addressing form: when MatchID is empty it resolves to the match the
// sender shares with the recipient.
type PostInput struct {
	MatchID       string  `json:"matchId"`
	RecipientID   string  `json:"recipientId"`
	Content       string  `json:"content"`
	Type          string  `json:"type"`
	VoiceURL      *string `json:"voiceUrl"`
	VoiceDuration *int    `json:"voiceDuration"`
}

// PostMessage appends a message to a match's conversation.
//
// The sender must be one of the two participants; the insert and the
// parent match's last_message_at bump happen in one transaction (see
// MessageRepository.Create).
func (s *Service) PostMessage(ctx context.Context, senderID string, in PostInput) (*db.Message, error) {
	s.appCtx.Logger.Debug("PostMessage called", "match", in.MatchID, "sender", senderID)

	if in.MatchID == "" && in.RecipientID != "" {
		match, err := s.matches.Get(ctx, senderID, in.RecipientID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if match == nil {
			return nil, svcErr.NotFound("no match with this recipient")
		}
		in.MatchID = match.ID
	}
	if in.MatchID == "" {
		return nil, svcErr.Validation("matchId is required")
	}
	msgType := in.Type
	if msgType == "" {
		msgType = TypeText
	}
	switch msgType {
	case TypeText, TypeVoice, TypeImage:
	default:
		return nil, svcErr.Validation("type must be one of text, voice, image")
	}
	if msgType == TypeText && strings.TrimSpace(in.Content) == "" {
		return nil, svcErr.Validation("content is required")
	}
	if msgType == TypeVoice && (in.VoiceURL == nil || *in.VoiceURL == "") {
		return nil, svcErr.Validation("voiceUrl is required for voice messages")
	}

	match, err := s.participantMatch(ctx, in.MatchID, senderID)
	if err != nil {
		return nil, err
	}

	message := &db.Message{
		MatchID:       match.ID,
		SenderID:      senderID,
		Content:       in.Content,
		MessageType:   msgType,
		VoiceURL:      in.VoiceURL,
		VoiceDuration: in.VoiceDuration,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		s.appCtx.Logger.Error("message insert failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return message, nil
}

// ListMessages returns the match's messages in ascending creation order,
// each annotated with the sender profile. Restricted to participants so
// no conversation leaks across matches.
func (s *Service) ListMessages(ctx context.Context, matchID, callerID string) ([]db.MessageWithSender, error) {
	if _, err := s.participantMatch(ctx, matchID, callerID); err != nil {
		return nil, err
	}

	views, err := s.messages.ListByMatch(ctx, matchID)
	if err != nil {
		s.appCtx.Logger.Error("ListMessages failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return views, nil
}

// MarkMessagesAsRead flips the read flag on every message in the match
// not authored by the caller. Idempotent: the second call is a no-op.
func (s *Service) MarkMessagesAsRead(ctx context.Context, matchID, callerID string) error {
	if _, err := s.participantMatch(ctx, matchID, callerID); err != nil {
		return err
	}

	updated, err := s.messages.MarkRead(ctx, matchID, callerID)
	if err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("messages marked read", "match", matchID, "updated", updated)
	return nil
}

// participantMatch loads the match and authorizes the caller as one of
// its two participants.
func (s *Service) participantMatch(ctx context.Context, matchID, callerID string) (*db.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if match == nil {
		return nil, svcErr.NotFound("match not found")
	}
	if match.User1ID != callerID && match.User2ID != callerID {
		return nil, svcErr.Authorization("caller is not a participant of this match")
	}
	return match, nil
}
