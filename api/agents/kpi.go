package agents

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nroussel/airdispatch/core/kpi"
)

// NewKPIHandler exposes delivery KPIs via GET /api/agents/{id}/kpis.
func NewKPIHandler(store kpi.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/agents/")
		parts := strings.Split(path, "/")
		if len(parts) < 2 || parts[1] != "kpis" {
			http.NotFound(w, r)
			return
		}
		agentID, err := strconv.Atoi(parts[0])
		if err != nil {
			http.Error(w, "invalid agent id", http.StatusBadRequest)
			return
		}
		start, _ := strconv.Atoi(r.URL.Query().Get("from"))
		end := 1<<31 - 1
		if s := r.URL.Query().Get("to"); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				end = v
			}
		}
		recs, err := store.Query(agentID, start, end)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		type out struct {
			Window    int     `json:"window"`
			Delivered int     `json:"delivered"`
			OnTime    int     `json:"on_time"`
			Cancelled int     `json:"cancelled"`
			OnTimePct float64 `json:"on_time_ratio"`
		}
		outSlice := make([]out, len(recs))
		for i, rec := range recs {
			o := out{
				Window:    rec.Window,
				Delivered: rec.Delivered,
				OnTime:    rec.OnTime,
				Cancelled: rec.Cancelled,
			}
			if rec.Delivered > 0 {
				o.OnTimePct = float64(rec.OnTime) / float64(rec.Delivered)
			}
			outSlice[i] = o
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(outSlice)
	})
}
