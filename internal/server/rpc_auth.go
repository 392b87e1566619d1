package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/creachadair/jrpc2"
)

// requireToken rejects requests whose Authorization header is not
// "Bearer <secret>". The rejection body is a JSON-RPC error object so RPC
// clients can decode it. An empty secret rejects everything.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if validToken(secret, r.Header.Get("Authorization")) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(struct {
			Version string       `json:"jsonrpc"`
			Error   *jrpc2.Error `json:"error"`
			ID      any          `json:"id"`
		}{
			Version: "2.0",
			Error:   &jrpc2.Error{Code: jrpc2.InvalidRequest, Message: "Unauthorized"},
		})
	})
}

func validToken(secret, header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if secret == "" || !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
