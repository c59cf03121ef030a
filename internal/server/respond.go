package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	mapped := svcErr.Map(err)
	writeJSON(w, svcErr.HTTPStatus(err), map[string]string{
		"error": mapped.Message,
		"kind":  string(mapped.Kind),
	})
}

// decodeJSON parses the request body, turning malformed payloads into a
// validation error before any service logic runs.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return svcErr.Validation("invalid JSON body")
	}
	return nil
}
