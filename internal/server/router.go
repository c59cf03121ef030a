package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/app"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/account"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/billing"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/chat"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/discovery"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/matching"
)

// Services bundles everything the REST surface exposes.
type Services struct {
	Account   *account.Service
	Discovery *discovery.Service
	Matching  *matching.Service
	Chat      *chat.Service
	Billing   *billing.Service
}

// NewServices wires all services against the shared AppContext.
func NewServices(appCtx *app.AppContext) Services {
	return Services{
		Account:   account.NewService(appCtx),
		Discovery: discovery.NewService(appCtx),
		Matching:  matching.NewService(appCtx),
		Chat:      chat.NewService(appCtx),
		Billing:   billing.NewService(appCtx),
	}
}

// NewRouter builds the REST routing table.
//
// Everything under /api except /api/auth/login requires the user-id
// header; login is the entry point that supplies the identity used
// everywhere else.
func NewRouter(appCtx *app.AppContext, svcs Services) http.Handler {
	h := &handler{svcs: svcs}

	r := mux.NewRouter()
	r.Use(requestLogger(appCtx.Logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(requireUser)

	authed.HandleFunc("/users/me", h.me).Methods(http.MethodGet)
	authed.HandleFunc("/users/update", h.updateProfile).Methods(http.MethodPut)

	authed.HandleFunc("/discovery", h.discovery).Methods(http.MethodGet)

	authed.HandleFunc("/swipes", h.createSwipe).Methods(http.MethodPost)
	authed.HandleFunc("/matches", h.listMatches).Methods(http.MethodGet)
	authed.HandleFunc("/likes", h.listLikes).Methods(http.MethodGet)
	authed.HandleFunc("/likes/count", h.countLikes).Methods(http.MethodGet)

	authed.HandleFunc("/messages", h.postMessage).Methods(http.MethodPost)
	authed.HandleFunc("/matches/{matchId}/messages", h.listMessages).Methods(http.MethodGet)
	authed.HandleFunc("/matches/{matchId}/read", h.markRead).Methods(http.MethodPost)

	authed.HandleFunc("/subscriptions", h.createSubscription).Methods(http.MethodPost)
	authed.HandleFunc("/subscriptions/status", h.subscriptionStatus).Methods(http.MethodGet)
	authed.HandleFunc("/subscriptions/{id}/cancel", h.cancelSubscription).Methods(http.MethodPost)

	return r
}
