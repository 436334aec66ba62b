// Package storage provides SQLite-based persistence for session reports.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session reports.
type Store struct {
	db *sql.DB
}

// Session is one finished engine run.
type Session struct {
	ID        int64
	Scene     string
	Seed      int64
	Frames    int64
	Elapsed   time.Duration
	StartedAt time.Time
	CreatedAt time.Time
	Managers  []ManagerStats
	Leaks     []Leak
	LeakCount int // filled by RecentSessions
}

// ManagerStats are one manager's counters at shutdown.
type ManagerStats struct {
	Kind     string
	Live     int
	Peak     int
	Added    int64
	Removed  int64
	Clones   int64
	Failures int64
}

// Leak is an entry that was still referenced outside its manager at shutdown.
type Leak struct {
	Kind     string
	Name     string
	Handle   uint32
	RefCount int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS session_managers (
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			live INTEGER NOT NULL,
			peak INTEGER NOT NULL,
			added INTEGER NOT NULL,
			removed INTEGER NOT NULL,
			clones INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			PRIMARY KEY (session_id, kind)
		);

		CREATE TABLE IF NOT EXISTS session_leaks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			handle INTEGER NOT NULL,
			refcount INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_session_leaks_session ON session_leaks(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a session with its manager counters and leaks in one
// transaction. Returns the ID of the inserted session.
func (s *Store) SaveSession(sess Session) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	var started any
	if !sess.StartedAt.IsZero() {
		started = sess.StartedAt.UTC()
	}
	res, err := tx.Exec(
		`INSERT INTO sessions (scene, seed, frames, elapsed_ms, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.Scene, sess.Seed, sess.Frames, sess.Elapsed.Milliseconds(), started,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, m := range sess.Managers {
		_, err := tx.Exec(
			`INSERT INTO session_managers
			 (session_id, kind, live, peak, added, removed, clones, failures)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, m.Kind, m.Live, m.Peak, m.Added, m.Removed, m.Clones, m.Failures,
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save manager %s: %w", m.Kind, err)
		}
	}

	for _, l := range sess.Leaks {
		_, err := tx.Exec(
			`INSERT INTO session_leaks (session_id, kind, name, handle, refcount)
			 VALUES (?, ?, ?, ?, ?)`,
			id, l.Kind, l.Name, int64(l.Handle), l.RefCount,
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save leak %s/%s: %w", l.Kind, l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit session: %w", err)
	}
	return id, nil
}

// RecentSessions retrieves the latest N sessions, newest first, with their
// leak counts. Managers and leaks are loaded separately.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT s.id, s.scene, s.seed, s.frames, s.elapsed_ms, s.started_at, s.created_at,
		        (SELECT COUNT(*) FROM session_leaks l WHERE l.session_id = s.id)
		 FROM sessions s
		 ORDER BY s.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess               Session
			elapsedMS          int64
			started, createdAt any
		)
		if err := rows.Scan(&sess.ID, &sess.Scene, &sess.Seed, &sess.Frames, &elapsedMS,
			&started, &createdAt, &sess.LeakCount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		sess.StartedAt = parseTime(started)
		sess.CreatedAt = parseTime(createdAt)
		out = append(out, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// SessionManagers returns the manager counters of one session, in kind order.
func (s *Store) SessionManagers(sessionID int64) ([]ManagerStats, error) {
	rows, err := s.db.Query(
		`SELECT kind, live, peak, added, removed, clones, failures
		 FROM session_managers
		 WHERE session_id = ?
		 ORDER BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query managers: %w", err)
	}
	defer rows.Close()

	var out []ManagerStats
	for rows.Next() {
		var m ManagerStats
		if err := rows.Scan(&m.Kind, &m.Live, &m.Peak, &m.Added, &m.Removed, &m.Clones, &m.Failures); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SessionLeaks returns the leaks recorded for one session.
func (s *Store) SessionLeaks(sessionID int64) ([]Leak, error) {
	rows, err := s.db.Query(
		`SELECT kind, name, handle, refcount
		 FROM session_leaks
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaks: %w", err)
	}
	defer rows.Close()

	var out []Leak
	for rows.Next() {
		var (
			l      Leak
			handle int64
		)
		if err := rows.Scan(&l.Kind, &l.Name, &handle, &l.RefCount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		l.Handle = uint32(handle)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ClearSessions deletes every stored session.
func (s *Store) ClearSessions() error {
	for _, table := range []string{"session_leaks", "session_managers", "sessions"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	return nil
}

// parseTime handles both time.Time and the string form sqlite returns for
// DATETIME columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
