package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/cache"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/config"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/db"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/server"
)

// setupRouter wires the full REST surface against an in-memory SQLite DB
// and a miniredis, the same composition main performs.
func setupRouter(t *testing.T) http.Handler {
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
	return server.NewRouter(appCtx, server.NewServices(appCtx))
}

func doJSON(t *testing.T, router http.Handler, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("user-id", userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, rec.Code)

	var user db.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.NotEmpty(t, user.ID)
	return user.ID
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "authorization", body["kind"])
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestSwipeMatchMessageFlow drives the happy path over HTTP: both users
// log in, complete onboarding, like each other, and exchange the first
// message.
func TestSwipeMatchMessageFlow(t *testing.T) {
	router := setupRouter(t)

	u1 := loginAs(t, router, "u1@test.com")
	u2 := loginAs(t, router, "u2@test.com")

	for _, id := range []string{u1, u2} {
		rec := doJSON(t, router, http.MethodPut, "/api/users/update", id, map[string]interface{}{
			"name": "User", "age": 28, "gender": "woman", "lookingFor": "serious",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// u2 shows up in u1's discovery feed
	rec := doJSON(t, router, http.MethodGet, "/api/discovery", u1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed struct {
		Profiles []struct {
			ID string `json:"id"`
		} `json:"profiles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Profiles, 1)
	assert.Equal(t, u2, feed.Profiles[0].ID)

	// one-sided like
	rec = doJSON(t, router, http.MethodPost, "/api/swipes", u1, map[string]interface{}{
		"swipedId": u2, "isLike": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var swipe struct {
		IsMatch bool `json:"isMatch"`
		Match   *struct {
			ID string `json:"id"`
		} `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &swipe))
	assert.False(t, swipe.IsMatch)

	// reciprocal like closes the match
	rec = doJSON(t, router, http.MethodPost, "/api/swipes", u2, map[string]interface{}{
		"swipedId": u1, "isLike": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &swipe))
	require.True(t, swipe.IsMatch)
	require.NotNil(t, swipe.Match)
	matchID := swipe.Match.ID

	// first message
	rec = doJSON(t, router, http.MethodPost, "/api/messages", u1, map[string]interface{}{
		"matchId": matchID, "content": "hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/matches/"+matchID+"/messages", u2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs struct {
		Messages []struct {
			Message struct {
				Content string `json:"content"`
				IsRead  bool   `json:"isRead"`
			} `json:"message"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, "hi", msgs.Messages[0].Message.Content)

	rec = doJSON(t, router, http.MethodPost, "/api/matches/"+matchID+"/read", u2, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// a third party cannot read the conversation
	intruder := loginAs(t, router, "intruder@test.com")
	rec = doJSON(t, router, http.MethodGet, "/api/matches/"+matchID+"/messages", intruder, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLikesGatingOverHTTP(t *testing.T) {
	router := setupRouter(t)

	me := loginAs(t, router, "me@test.com")
	fan := loginAs(t, router, "fan@test.com")
	for _, id := range []string{me, fan} {
		rec := doJSON(t, router, http.MethodPut, "/api/users/update", id, map[string]interface{}{
			"name": "User", "age": 28, "gender": "man", "lookingFor": "casual",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/swipes", fan, map[string]interface{}{
		"swipedId": me, "isLike": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// count is the free teaser
	rec = doJSON(t, router, http.MethodGet, "/api/likes/count", me, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Count)

	// the list itself stays gated until VIP
	rec = doJSON(t, router, http.MethodGet, "/api/likes", me, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Likers []json.RawMessage `json:"likers"`
		Gated  bool              `json:"gated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.True(t, page.Gated)
	assert.Empty(t, page.Likers)

	rec = doJSON(t, router, http.MethodPost, "/api/subscriptions", me, map[string]string{
		"planType": "monthly", "providerRef": "pay_test",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/likes", me, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.False(t, page.Gated)
	assert.Len(t, page.Likers, 1)
}
