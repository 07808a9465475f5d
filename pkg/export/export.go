package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/nroussel/airdispatch/core/kpi"
)

// WriteJSON writes the KPI records to w in JSON format.
func WriteJSON(w io.Writer, recs []kpi.Record) error {
	enc := json.NewEncoder(w)
	return enc.Encode(recs)
}

// WriteCSV writes the KPI records to w in CSV format.
func WriteCSV(w io.Writer, recs []kpi.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent_id", "window", "delivered", "on_time", "cancelled"}); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			strconv.Itoa(r.AgentID),
			strconv.Itoa(r.Window),
			strconv.Itoa(r.Delivered),
			strconv.Itoa(r.OnTime),
			strconv.Itoa(r.Cancelled),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
