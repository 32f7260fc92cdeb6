// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run results as stored in the result column.
const (
	ResultVictory   = "victory"
	ResultDefeat    = "defeat"
	ResultAbandoned = "abandoned"
)

// RunRecord is one finished or abandoned run.
type RunRecord struct {
	ID           int64
	Player       string // SSH user or local user name
	Pilot        string // empty for human play
	Stage        int    // 0-based stage index
	Seed         int64
	Result       string
	WavesCleared int
	BaseHP       int
	Coins        int
	TimeMs       int64
	Snapshot     string // %016x state hash at the end
	CreatedAt    time.Time
}

// StageStats contains aggregated statistics for a stage.
type StageStats struct {
	Stage      int
	Runs       int
	Victories  int
	Defeats    int
	BestWaves  int
	AvgTimeMs  float64
	LastPlayed time.Time
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			pilot TEXT NOT NULL DEFAULT '',
			stage INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			result TEXT NOT NULL,
			waves_cleared INTEGER NOT NULL DEFAULT 0,
			base_hp INTEGER NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			time_ms INTEGER NOT NULL DEFAULT 0,
			snapshot TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_stage ON runs(stage);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(stage, waves_cleared DESC, base_hp DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
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

// SaveRun records a run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	if r.Result == "" {
		return 0, errors.New("storage: run result is required")
	}
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (player, pilot, stage, seed, result, waves_cleared, base_hp, coins, time_ms, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Player, r.Pilot, r.Stage, r.Seed, r.Result,
		r.WavesCleared, r.BaseHP, r.Coins, r.TimeMs, r.Snapshot,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, player, pilot, stage, seed, result, waves_cleared, base_hp, coins, time_ms, snapshot, created_at`

// RecentRuns retrieves the most recent runs across all stages.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// PlayerRuns retrieves the most recent runs of one player.
func (s *Store) PlayerRuns(player string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE player = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		player, limit,
	)
}

// BestRuns retrieves the top N runs for a stage.
// Victories rank first, then more waves cleared, more base hp left, and
// shorter run time.
func (s *Store) BestRuns(stage, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE stage = ?
		 ORDER BY (result = 'victory') DESC, waves_cleared DESC, base_hp DESC, time_ms ASC, id ASC
		 LIMIT ?`,
		stage, limit,
	)
}

// ClearRuns deletes all runs for the given stage.
func (s *Store) ClearRuns(stage int) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE stage = ?", stage)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// StageStats retrieves statistics for every stage that has been played.
func (s *Store) StageStats() (map[int]*StageStats, error) {
	rows, err := s.db.Query(
		`SELECT stage, COUNT(*),
		        SUM(CASE WHEN result = 'victory' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN result = 'defeat' THEN 1 ELSE 0 END),
		        MAX(waves_cleared), AVG(time_ms), MAX(created_at)
		 FROM runs
		 GROUP BY stage`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stage stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*StageStats)
	for rows.Next() {
		var st StageStats
		var lastPlayed any
		if err := rows.Scan(&st.Stage, &st.Runs, &st.Victories, &st.Defeats, &st.BestWaves, &st.AvgTimeMs, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Stage] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Player, &r.Pilot, &r.Stage, &r.Seed, &r.Result,
			&r.WavesCleared, &r.BaseHP, &r.Coins, &r.TimeMs, &r.Snapshot, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
