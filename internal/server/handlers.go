package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/account"
	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/service/chat"
)

// handler adapts the service layer to JSON over HTTP. No business logic
// lives here.
type handler struct {
	svcs Services
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svcs.Account.Login(r.Context(), body.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	me, err := h.svcs.Account.GetMe(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in account.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.svcs.Account.UpdateProfile(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) discovery(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	profiles, err := h.svcs.Discovery.GetDiscoveryProfiles(r.Context(), callerID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

func (h *handler) createSwipe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SwipedID string `json:"swipedId"`
		IsLike   bool   `json:"isLike"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svcs.Matching.RecordSwipe(r.Context(), callerID(r), body.SwipedID, body.IsLike)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *handler) listMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svcs.Matching.ListMatches(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

func (h *handler) listLikes(w http.ResponseWriter, r *http.Request) {
	var token *string
	if raw := r.URL.Query().Get("paginationToken"); raw != "" {
		token = &raw
	}

	page, err := h.svcs.Matching.ListLikedYou(r.Context(), callerID(r), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) countLikes(w http.ResponseWriter, r *http.Request) {
	count, err := h.svcs.Matching.CountLikedYou(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *handler) postMessage(w http.ResponseWriter, r *http.Request) {
	var in chat.PostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	message, err := h.svcs.Chat.PostMessage(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *handler) listMessages(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	messages, err := h.svcs.Chat.ListMessages(r.Context(), matchID, callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *handler) markRead(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	if err := h.svcs.Chat.MarkMessagesAsRead(r.Context(), matchID, callerID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) createSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlanType    string `json:"planType"`
		ProviderRef string `json:"providerRef"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	sub, err := h.svcs.Billing.CreateSubscription(r.Context(), callerID(r), body.PlanType, body.ProviderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *handler) subscriptionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.svcs.Billing.SubscriptionStatus(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sub, err := h.svcs.Billing.CancelSubscription(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
