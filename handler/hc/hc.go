package hc

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pandodao/walletflow/core"
)

// Handler reports liveness. The service is ready once the syncer stored a token list.
func Handler(version string, tokens core.TokenStore) http.Handler {
	t := time.Now()
	fn := func(w http.ResponseWriter, r *http.Request) {
		list, err := tokens.List(r.Context())
		ready := err == nil && len(list) > 0

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"version": version,
			"uptime":  time.Since(t).String(),
			"tokens":  len(list),
			"ready":   ready,
		})
	}

	return http.HandlerFunc(fn)
}
