package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists load attempts to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so `finchart loads` can read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_loads (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			duration_ms INTEGER,
			outcome     TEXT NOT NULL,
			points      INTEGER,
			null_count  INTEGER,
			bad_key     INTEGER,
			bad_value   INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_ts ON chart_loads(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO chart_loads
		(id, timestamp, source, duration_ms, outcome, points, null_count, bad_key, bad_value, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, evt.StartedAt.UnixMilli(), evt.Source, evt.Duration.Milliseconds(),
		evt.Outcome, evt.Points, evt.Null, evt.BadKey, evt.BadValue, evt.Error,
	)
	return err
}

// RecentLoads returns up to limit events, newest first.
func (r *SQLiteRecorder) RecentLoads(limit int) ([]LoadEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, source, duration_ms, outcome,
		points, null_count, bad_key, bad_value, error
		FROM chart_loads ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	defer rows.Close()

	var events []LoadEvent
	for rows.Next() {
		var (
			evt        LoadEvent
			ts, durMS  int64
			source, ev sql.NullString
		)
		if err := rows.Scan(&evt.ID, &ts, &source, &durMS, &evt.Outcome,
			&evt.Points, &evt.Null, &evt.BadKey, &evt.BadValue, &ev); err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		evt.StartedAt = time.UnixMilli(ts)
		evt.Duration = time.Duration(durMS) * time.Millisecond
		evt.Source = source.String
		evt.Error = ev.String
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
