package chat_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/cache"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/config"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/repository"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/chat"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/matching"
)

func setupService(t *testing.T) (*chat.Service, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	appCtx := app.New(dbase, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return chat.NewService(appCtx), appCtx
}

func seedUser(t *testing.T, appCtx *app.AppContext, name string) db.User {
	t.Helper()
	email := name + "@test.com"
	user := db.User{ID: uuid.NewString(), Email: &email, LastActiveAt: time.Now().UTC()}
	require.NoError(t, appCtx.DB.Create(&user).Error)
	profile := db.Profile{
		ID: uuid.NewString(), UserID: user.ID, Name: name, Age: 25,
		Gender: "man", LookingFor: "serious",
		Interests: []string{}, Photos: []string{},
		MaxDistance: 50, AgeRangeMin: 18, AgeRangeMax: 99,
	}
	require.NoError(t, appCtx.DB.Create(&profile).Error)
	return user
}

func seedMatch(t *testing.T, appCtx *app.AppContext, a, b string) *db.Match {
	t.Helper()
	match, _, err := repository.NewMatchRepository(appCtx.DB).Create(context.Background(), a, b)
	require.NoError(t, err)
	return match
}

func TestPostMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	var e *svcErr.Error

	_, err := svc.PostMessage(ctx, u1.ID, chat.PostInput{Content: "hi"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindValidation, e.Kind)

	_, err = svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: match.ID, Content: "  "})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindValidation, e.Kind)

	_, err = svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: match.ID, Content: "x", Type: "carrier-pigeon"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindValidation, e.Kind)

	_, err = svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: match.ID, Type: chat.TypeVoice})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindValidation, e.Kind)
}

func TestPostMessageAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	outsider := seedUser(t, appCtx, "outsider")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	var e *svcErr.Error

	_, err := svc.PostMessage(ctx, outsider.ID, chat.PostInput{MatchID: match.ID, Content: "let me in"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindAuthorization, e.Kind)

	_, err = svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: "no-such-match", Content: "hello?"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindNotFound, e.Kind)
}

func TestPostMessageDefaultsToText(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	msg, err := svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: match.ID, Content: "hey"})
	require.NoError(t, err)
	assert.Equal(t, chat.TypeText, msg.MessageType)
	assert.False(t, msg.IsRead)
}

func TestPostMessageByRecipient(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	stranger := seedUser(t, appCtx, "stranger")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	// legacy addressing resolves to the shared match
	msg, err := svc.PostMessage(ctx, u1.ID, chat.PostInput{RecipientID: u2.ID, Content: "hey"})
	require.NoError(t, err)
	assert.Equal(t, match.ID, msg.MatchID)

	// no match with the recipient means nowhere to post
	var e *svcErr.Error
	_, err = svc.PostMessage(ctx, u1.ID, chat.PostInput{RecipientID: stranger.ID, Content: "hey"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindNotFound, e.Kind)
}

func TestPostVoiceMessage(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	url := "https://cdn.test/voice/1.ogg"
	dur := 12
	msg, err := svc.PostMessage(ctx, u2.ID, chat.PostInput{
		MatchID: match.ID, Type: chat.TypeVoice, VoiceURL: &url, VoiceDuration: &dur,
	})
	require.NoError(t, err)
	assert.Equal(t, chat.TypeVoice, msg.MessageType)
	require.NotNil(t, msg.VoiceURL)
	assert.Equal(t, url, *msg.VoiceURL)
}

func TestListMessagesParticipantOnly(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	outsider := seedUser(t, appCtx, "outsider")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	_, err := svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: match.ID, Content: "one"})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, u2.ID, chat.PostInput{MatchID: match.ID, Content: "two"})
	require.NoError(t, err)

	msgs, err := svc.ListMessages(ctx, match.ID, u1.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Message.Content)
	assert.Equal(t, "u1", msgs[0].Sender.Name)
	assert.Equal(t, "two", msgs[1].Message.Content)

	var e *svcErr.Error
	_, err = svc.ListMessages(ctx, match.ID, outsider.ID)
	require.True(t, errors.As(err, &e))
	assert.Equal(t, svcErr.KindAuthorization, e.Kind)
}

func TestMarkMessagesAsReadIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")
	match := seedMatch(t, appCtx, u1.ID, u2.ID)

	_, err := svc.PostMessage(ctx, u2.ID, chat.PostInput{MatchID: match.ID, Content: "unread"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkMessagesAsRead(ctx, match.ID, u1.ID))
	require.NoError(t, svc.MarkMessagesAsRead(ctx, match.ID, u1.ID))

	msgs, err := svc.ListMessages(ctx, match.ID, u1.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Message.IsRead)
}

// TestMatchAndFirstConversation walks the core flow end to end: two users
// like each other, one match appears, the first message lands and the
// recipient reads it.
func TestMatchAndFirstConversation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	matchSvc := matching.NewService(appCtx)

	u1 := seedUser(t, appCtx, "u1")
	u2 := seedUser(t, appCtx, "u2")

	res, err := matchSvc.RecordSwipe(ctx, u1.ID, u2.ID, true)
	require.NoError(t, err)
	require.False(t, res.IsMatch)

	res, err = matchSvc.RecordSwipe(ctx, u2.ID, u1.ID, true)
	require.NoError(t, err)
	require.True(t, res.IsMatch)
	match := res.Match

	msg, err := svc.PostMessage(ctx, u1.ID, chat.PostInput{MatchID: match.ID, Content: "hi"})
	require.NoError(t, err)

	// the conversation now orders the match listing
	views, err := matchSvc.ListMatches(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Match.LastMessageAt)
	assert.WithinDuration(t, msg.CreatedAt, *views[0].Match.LastMessageAt, time.Millisecond)

	// u2 reads it
	require.NoError(t, svc.MarkMessagesAsRead(ctx, match.ID, u2.ID))
	msgs, err := svc.ListMessages(ctx, match.ID, u2.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Message.Content)
	assert.True(t, msgs[0].Message.IsRead)
}
