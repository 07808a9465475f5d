package agents

import (
	"encoding/json"
	"net/http"

	"github.com/nroussel/airdispatch/core/agentstatus"
)

// NewStatusHandler returns an HTTP handler exposing agent status data via
// GET /api/agents/status.
func NewStatusHandler(store agentstatus.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		entries := store.List()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
