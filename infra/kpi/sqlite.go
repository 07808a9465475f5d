package kpi

import (
	"database/sql"

	_ "modernc.org/sqlite"

	core "github.com/nroussel/airdispatch/core/kpi"
)

// SQLiteStore persists KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS agent_kpi (
        agent_id INTEGER,
        window INTEGER,
        delivered INTEGER,
        on_time INTEGER,
        cancelled INTEGER,
        PRIMARY KEY(agent_id, window)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or updates the KPI record.
func (s *SQLiteStore) Add(r core.Record) error {
	w := core.Window(r.Window)
	_, err := s.db.Exec(`INSERT INTO agent_kpi (agent_id, window, delivered, on_time, cancelled)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(agent_id, window) DO UPDATE SET
            delivered = delivered + excluded.delivered,
            on_time = on_time + excluded.on_time,
            cancelled = cancelled + excluded.cancelled`,
		r.AgentID, w, r.Delivered, r.OnTime, r.Cancelled)
	return err
}

// Query returns records with windows in the range [start,end].
func (s *SQLiteStore) Query(agentID, start, end int) ([]core.Record, error) {
	start = core.Window(start)
	end = core.Window(end)
	rows, err := s.db.Query(`SELECT agent_id, window, delivered, on_time, cancelled
        FROM agent_kpi WHERE agent_id = ? AND window >= ? AND window <= ? ORDER BY window`,
		agentID, start, end)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var r core.Record
		if err := rows.Scan(&r.AgentID, &r.Window, &r.Delivered, &r.OnTime, &r.Cancelled); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
